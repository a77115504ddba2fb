// Package handlers serves the dashboard pages and forms. Every backend call
// goes through the request's auth session, built by middleware.InjectUser.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/auth"
	"studio-dashboard/internal/calendar"
	"studio-dashboard/internal/database"
	"studio-dashboard/internal/listing"
	"studio-dashboard/internal/middleware"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/pricing"
)

type Handler struct {
	Rates      pricing.Rates
	Calendar   calendar.Options
	Journal    database.Journal
	Guard      *listing.Guard
	Log        *slog.Logger
	DebugTools bool
	Now        func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().In(h.Calendar.Location)
	}
	return time.Now().In(h.Calendar.Location)
}

func (h *Handler) api(c *gin.Context) *apiclient.Client {
	return middleware.Auth(c).API()
}

func session(c *gin.Context) *auth.Session {
	return middleware.Auth(c)
}

func can(c *gin.Context, roles ...models.UserRole) bool {
	a := middleware.Auth(c)
	return a != nil && a.HasRole(roles...)
}

var (
	managers = []models.UserRole{models.RoleAdmin, models.RoleManager}
	sellers  = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleSales}
	admins   = []models.UserRole{models.RoleAdmin}
)

// upstreamFailed handles an error from the backend for a page that cannot be
// shown without the data: lost auth goes to the login page, anything else
// becomes a flash on the fallback page.
func (h *Handler) upstreamFailed(c *gin.Context, err error, msg, redirectTo string) {
	if apiclient.IsAuth(err) {
		flash(c, flashError, "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.Log.Error(msg, "err", err, "path", c.Request.URL.Path, "request_id", c.GetString("RequestID"))
	flash(c, flashError, apiclient.Message(err, msg))
	c.Redirect(http.StatusFound, redirectTo)
}

// authLost redirects to login when err means the session is gone.
func authLost(c *gin.Context, err error) bool {
	if !apiclient.IsAuth(err) {
		return false
	}
	flash(c, flashError, "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại")
	c.Redirect(http.StatusFound, "/login")
	return true
}

// record writes to the activity journal on behalf of the current user.
func (h *Handler) record(c *gin.Context, entity string, id models.ID, action, details string) {
	e := database.Entry{
		Entity:    entity,
		EntityID:  id.String(),
		Action:    action,
		Details:   details,
		RequestID: c.GetString("RequestID"),
	}
	if a := session(c); a != nil && a.User != nil {
		e.Username = a.User.Username
		e.Role = a.User.Role
	}
	h.Journal.Record(c.Request.Context(), e)
}

// errSuperseded marks a list fetch replaced by a newer one from the same browser.
var errSuperseded = errors.New("superseded by a newer request")

// guardedList loads a collection under the request-generation guard. A newer
// load of the same page from the same browser cancels this one and its result
// is dropped.
func guardedList[T any](h *Handler, c *gin.Context, page string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := middleware.SessionID(c) + ":" + page
	ctx, gen, done := h.Guard.Begin(c.Request.Context(), key)
	defer done()

	items, err := load(ctx)
	if !h.Guard.Current(key, gen) || errors.Is(err, context.Canceled) {
		return nil, errSuperseded
	}
	return items, err
}

// listFailed renders the outcome of a failed guarded list load.
func (h *Handler) listFailed(c *gin.Context, err error, msg string) {
	if errors.Is(err, errSuperseded) {
		h.Log.Debug("dropped stale list response", "path", c.Request.URL.Path)
		c.Status(http.StatusConflict)
		return
	}
	h.upstreamFailed(c, err, msg, "/")
}
