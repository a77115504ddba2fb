package middleware

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/auth"
	"studio-dashboard/internal/tokens"
)

const (
	authKey      = "Auth"
	sessionIDKey = "sid"
)

// InjectUser builds the request's auth session from the cookie and, when a
// token is stored, confirms it against the backend.
func InjectUser(api *apiclient.Client, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := tokens.NewSessionStore(sessions.Default(c))
		a := auth.New(api.For(store), log)

		if store.AccessToken() != "" {
			// failure already cleared the tokens; the visitor is anonymous
			_ = a.FetchUser(c.Request.Context())
		}

		c.Set(authKey, a)
		if a.IsAuthenticated && a.User != nil {
			c.Set("CurrentUser", *a.User)
		}
		c.Next()
	}
}

// Auth returns the session InjectUser attached, or nil.
func Auth(c *gin.Context) *auth.Session {
	v, ok := c.Get(authKey)
	if !ok {
		return nil
	}
	a, _ := v.(*auth.Session)
	return a
}

// SessionID is a random id kept in the cookie to key per-browser state.
func SessionID(c *gin.Context) string {
	sess := sessions.Default(c)
	if id, ok := sess.Get(sessionIDKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Set(sessionIDKey, id)
	_ = sess.Save()
	return id
}
