package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/forms"
	"studio-dashboard/internal/middleware"
	"studio-dashboard/internal/models"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash queues a one-shot message for the next rendered page.
func flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

// render wraps c.HTML and passes the current user, role flags and pending
// flashes to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if a := middleware.Auth(c); a != nil && a.IsAuthenticated && a.User != nil {
		data["CurrentUser"] = a.User
		data["CurrentUsername"] = a.User.DisplayName()
		data["CurrentUserRole"] = a.User.Role
		data["IsAdmin"] = a.HasRole(models.RoleAdmin)
		data["IsManager"] = a.HasRole(managers...)
	}

	sess := sessions.Default(c)
	ok, bad := sess.Flashes(flashSuccess), sess.Flashes(flashError)
	if len(ok) > 0 || len(bad) > 0 {
		_ = sess.Save()
	}
	data["FlashSuccess"] = ok
	data["FlashError"] = bad
	data["Path"] = c.Request.URL.Path

	c.HTML(status, tmpl, data)
}

// renderForm re-renders a form page with its validation messages.
func renderForm(c *gin.Context, tmpl string, data gin.H, errs forms.Errors) {
	data["error"] = errs.First()
	data["errors"] = errs
	render(c, http.StatusUnprocessableEntity, tmpl, data)
}

func renderError(c *gin.Context, status int, msg string) {
	render(c, status, "error.html", gin.H{"status": status, "message": msg})
}
