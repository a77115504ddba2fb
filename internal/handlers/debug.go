package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/tokens"
)

// TokenDebug shows what the session holds. Only routed with DEBUG_TOOLS.
func (h *Handler) TokenDebug(c *gin.Context) {
	store := h.api(c).Tokens()
	now := h.now()
	access := tokens.Inspect(store.AccessToken())

	render(c, http.StatusOK, "debug_token.html", gin.H{
		"access":      access,
		"expired":     access.Expired(now),
		"remaining":   access.Remaining(now).String(),
		"hasRefresh":  store.RefreshToken() != "",
		"sameRefresh": store.RefreshToken() == store.AccessToken(),
		"snapshot":    store.User(),
		"baseURL":     h.api(c).BaseURL(),
	})
}

func (h *Handler) ClearTokens(c *gin.Context) {
	if err := session(c).Logout(); err != nil {
		h.Log.Error("clear tokens", "err", err)
	}
	flash(c, flashSuccess, "Đã xóa token")
	c.Redirect(http.StatusFound, "/login")
}
