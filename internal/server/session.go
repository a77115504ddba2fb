package server

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"golang.org/x/crypto/hkdf"

	"studio-dashboard/internal/config"
)

const sessionName = "studio_session"

// sessionKeys derives independent signing and encryption keys from the
// configured secret.
func sessionKeys(secret string) (hashKey, blockKey []byte, err error) {
	if len(secret) < 16 {
		return nil, nil, errors.New("SESSION_SECRET must be at least 16 characters")
	}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("studio-dashboard session cookie"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

// newSessionStore keeps tokens and the user snapshot in a signed and
// encrypted cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	hashKey, blockKey, err := sessionKeys(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(hashKey, blockKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
