package middleware

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/models"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newEngine(t *testing.T, backend http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("error.html").Parse(`{{ .message }}`)))
	r.Use(sessions.Sessions("t", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.Use(RequestID())
	r.Use(InjectUser(apiclient.New(srv.URL), quiet()))
	r.GET("/seed", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("access_token", "tok")
		s.Set("refresh_token", "tok")
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "hi "+Auth(c).User.Username) })
	r.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.String(http.StatusOK, "admin") })
	return r
}

func seeded(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/seed", nil))
	cs := w.Result().Cookies()
	require.NotEmpty(t, cs)
	return cs[len(cs)-1]
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, r *http.Request) {})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?x=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))
}

func TestInjectUserConfirmsToken(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u1","username":"lan","role":"manager"}`)
	})
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(seeded(t, r))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi lan", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequireRoleForbids(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u1","username":"lan","role":"sales"}`)
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(seeded(t, r))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "không có quyền")
}

func TestRejectedTokenRedirectsToLogin(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(seeded(t, r))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := gin.New()
	r.Use(RequestID(), Logger(log))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "path=/boom")
	assert.NotContains(t, out, "path=/health")
}

func TestRequestIDKeepsValidInbound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, apiclient.RequestID(c.Request.Context())) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "3f1c2a9e-8b7d-4c6e-9f00-112233445566")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f1c2a9e-8b7d-4c6e-9f00-112233445566", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}
