package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what can be read from a token without verifying it. The dashboard
// never holds the signing key; this is for display only.
type Info struct {
	Present   bool
	JWT       bool
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (i Info) HasExpiry() bool { return !i.ExpiresAt.IsZero() }

func (i Info) Expired(now time.Time) bool {
	return i.HasExpiry() && !now.Before(i.ExpiresAt)
}

// Remaining is zero once the token has expired or when it carries no expiry.
func (i Info) Remaining(now time.Time) time.Duration {
	if !i.HasExpiry() || i.Expired(now) {
		return 0
	}
	return i.ExpiresAt.Sub(now).Truncate(time.Second)
}

// Inspect decodes the claims of a JWT without checking its signature. Opaque
// tokens are reported as present but not JWT.
func Inspect(token string) Info {
	if token == "" {
		return Info{}
	}
	info := Info{Present: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}
	info.JWT = true
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	return info
}
