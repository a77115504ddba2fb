package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-dashboard/internal/models"
	"studio-dashboard/internal/tokens"
)

func newTestClient(t *testing.T, h http.HandlerFunc, store tokens.Store) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL).For(store), srv
}

func TestBearerAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"total":1,"items":[{"id":"e1","name":"Lan","is_active":true}]}`))
	}, tokens.NewMemoryStore("tok", "tok"))

	ctx := WithRequestID(context.Background(), "req-1")
	emps, err := c.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 1)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-1", gotID)
	assert.Equal(t, models.ID("e1"), emps[0].ID)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var hadAuth bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, tokens.NewMemoryStore("", ""))

	require.NoError(t, c.Get(context.Background(), "/ping", nil))
	assert.False(t, hadAuth)
}

func TestRefreshOnceThenRetry(t *testing.T) {
	var refreshes, calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshEndpoint:
			atomic.AddInt32(&refreshes, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "old", body["refresh"])
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"access":"new"}`))
		case "/auth/me":
			atomic.AddInt32(&calls, 1)
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":7,"username":"lan","role":"manager"}`))
		}
	}, tokens.NewMemoryStore("old", "old"))

	u, err := c.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "lan", u.Username)
	assert.Equal(t, models.ID("7"), u.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "new", c.Tokens().AccessToken())
	assert.Equal(t, "old", c.Tokens().RefreshToken(), "refresh token is kept")
}

func TestSecond401IsNotRefreshedAgain(t *testing.T) {
	var refreshes int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshEndpoint {
			atomic.AddInt32(&refreshes, 1)
			_, _ = w.Write([]byte(`{"access":"new"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token revoked"}`))
	}, tokens.NewMemoryStore("old", "old"))

	_, err := c.Projects(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token revoked", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestRefreshFailureClearsTokens(t *testing.T) {
	store := tokens.NewMemoryStore("old", "old")
	require.NoError(t, store.SetUser(&models.User{Username: "lan"}))
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, store)

	_, err := c.Packages(context.Background())

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.True(t, IsAuth(err))
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Nil(t, store.User())
}

func TestNoRefreshTokenMeansAuthRequired(t *testing.T) {
	var refreshes int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshEndpoint {
			atomic.AddInt32(&refreshes, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens.NewMemoryStore("", ""))

	err := c.Get(context.Background(), "/employees/", nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, atomic.LoadInt32(&refreshes))
}

func TestErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", http.StatusBadRequest, `{"detail":"Tên đã tồn tại"}`, "Tên đã tồn tại"},
		{"message", http.StatusConflict, `{"message":"conflict"}`, "conflict"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, "field required"},
		{"json without message", http.StatusBadRequest, `{"name":["required"]}`, defaultErrorMessage},
		{"raw text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusForbidden, "", "Forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, tokens.NewMemoryStore("t", "t"))

			err := c.Get(context.Background(), "/x", nil)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestValidationErrorsAreKept(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"invalid","errors":{"name":["required"]}}`)
	}, tokens.NewMemoryStore("t", "t"))

	err := c.Post(context.Background(), "/employees/", map[string]string{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Errors, "name")
	assert.Equal(t, "invalid", Message(err, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("dial tcp: refused"), "fallback"))
}

func TestNoContentIsEmptySuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, tokens.NewMemoryStore("t", "t"))

	var out map[string]any
	require.NoError(t, c.Delete(context.Background(), "/partners/3", &out))
	assert.Nil(t, out)
}

func TestLoginStoresSingleTokenAsPair(t *testing.T) {
	store := tokens.NewMemoryStore("", "")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"token":"jwt","user":{"id":"u1","username":"lan"}}`))
	}, store)

	resp, err := c.Login(context.Background(), "lan", "secret")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "jwt", store.AccessToken())
	assert.Equal(t, "jwt", store.RefreshToken())
}

func TestLoginRejectionDoesNotRefresh(t *testing.T) {
	var refreshes int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshEndpoint {
			atomic.AddInt32(&refreshes, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Sai tên đăng nhập hoặc mật khẩu"}`)
	}, tokens.NewMemoryStore("", ""))

	_, err := c.Login(context.Background(), "lan", "bad")
	assert.Equal(t, "Sai tên đăng nhập hoặc mật khẩu", Message(err, ""))
	assert.Zero(t, atomic.LoadInt32(&refreshes))
}

func TestSalaryEnvelopeAndQuery(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"results":[{"id":1,"month":"2024-05","total_amount":100,"status":"paid"}]}`)
	}, tokens.NewMemoryStore("t", "t"))

	got, err := c.Salaries(context.Background(), SalaryQuery{Month: "2024-05"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "month=2024-05", gotQuery)
	assert.Equal(t, models.SalaryPaid, got[0].Status)
}

func TestBareArrayEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"p1","name":"A"},{"id":"p2","name":"B"}]`)
	}, tokens.NewMemoryStore("t", "t"))

	got, err := c.Partners(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQuerySkipsEmpty(t *testing.T) {
	assert.Equal(t, "", Query(map[string]string{"a": "", "b": ""}))
	assert.Equal(t, "?month=2024-05&status=paid", Query(map[string]string{"status": "paid", "month": "2024-05", "x": ""}))
}

func TestMetricsCountRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithMetrics(m)).For(tokens.NewMemoryStore("t", "t"))
	require.NoError(t, c.SetEmployeeActive(context.Background(), "e1", false))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("employees", http.MethodPatch, "204")))
	assert.Equal(t, "employees", resourceOf("/employees/e1/deactivate"))
	assert.Equal(t, "salaries", resourceOf("/salaries/?month=2024-05"))
}

func TestTimeoutKeepsCustomHTTPClient(t *testing.T) {
	custom := &http.Client{Transport: http.DefaultTransport}

	c := New("http://backend", WithHTTPClient(custom), WithTimeout(5*time.Second))
	assert.Same(t, http.DefaultTransport, c.http.Transport)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.Zero(t, custom.Timeout)

	c = New("http://backend", WithTimeout(time.Second))
	assert.Equal(t, time.Second, c.http.Timeout)
}
