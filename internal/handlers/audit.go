package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListActivity(c *gin.Context) {
	if !h.Journal.Enabled() {
		render(c, http.StatusOK, "audit_list.html", gin.H{"disabled": true})
		return
	}

	logs, err := h.Journal.Recent(c.Request.Context(), 200)
	if err != nil {
		h.Log.Error("load activity log", "err", err)
		renderError(c, http.StatusInternalServerError, "Không thể tải nhật ký hoạt động")
		return
	}

	render(c, http.StatusOK, "audit_list.html", gin.H{"logs": logs})
}
