package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/models"
)

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := Auth(c)
		if a == nil || !a.IsAuthenticated {
			target := "/login"
			if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole hides pages the backend would refuse anyway. It is not a
// security boundary.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := Auth(c)
		if a == nil || !a.IsAuthenticated {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !a.HasRole(roles...) {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"CurrentUser":     a.User,
				"CurrentUsername": a.User.DisplayName(),
				"CurrentUserRole": a.User.Role,
				"status":          http.StatusForbidden,
				"message":         "Bạn không có quyền truy cập chức năng này",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
