package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/models"
	"studio-dashboard/internal/tokens"
)

func newSession(t *testing.T, h http.HandlerFunc, store tokens.Store) (*Session, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL).For(store), nil), &calls
}

func TestFetchUserWithoutTokenMakesNoCall(t *testing.T) {
	s, calls := newSession(t, func(w http.ResponseWriter, r *http.Request) {}, tokens.NewMemoryStore("", ""))

	require.NoError(t, s.FetchUser(context.Background()))
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestFetchUserOn401ClearsTokens(t *testing.T) {
	store := tokens.NewMemoryStore("expired", "")
	require.NoError(t, store.SetUser(&models.User{Username: "stale"}))
	s, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, store)
	require.NotNil(t, s.User, "snapshot restored before validation")

	err := s.FetchUser(context.Background())

	assert.Error(t, err)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.Empty(t, store.AccessToken())
	assert.Nil(t, store.User())
}

func TestFetchUserOnServerErrorAlsoResets(t *testing.T) {
	store := tokens.NewMemoryStore("tok", "tok")
	s, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, store)

	assert.Error(t, s.FetchUser(context.Background()))
	assert.False(t, s.IsAuthenticated)
	assert.Empty(t, store.AccessToken())
}

func TestLoginSuccess(t *testing.T) {
	store := tokens.NewMemoryStore("", "")
	s, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_, _ = io.WriteString(w, `{"success":true,"token":"jwt"}`)
		case "/auth/me":
			assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"id":"u1","username":"lan","full_name":"Nguyễn Lan","role":"admin"}`)
		}
	}, store)

	require.NoError(t, s.Login(context.Background(), "lan", "secret"))

	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Error)
	assert.Equal(t, "Nguyễn Lan", s.User.DisplayName())
	assert.True(t, s.HasRole(models.RoleAdmin))
	assert.Equal(t, "lan", store.User().Username)
}

func TestLoginFailureSetsError(t *testing.T) {
	s, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Sai mật khẩu"}`)
	}, tokens.NewMemoryStore("", ""))

	err := s.Login(context.Background(), "lan", "bad")

	require.Error(t, err)
	assert.Equal(t, "Sai mật khẩu", s.Error)
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
}

func TestLogoutClears(t *testing.T) {
	store := tokens.NewMemoryStore("a", "r")
	s, _ := newSession(t, func(w http.ResponseWriter, r *http.Request) {}, store)
	s.IsAuthenticated = true
	s.User = &models.User{Username: "lan"}

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.Empty(t, store.AccessToken())
}
