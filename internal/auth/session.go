package auth

import (
	"errors"
	"net/http"
	"time"

	"autorent/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the HTTP-only cookie carrying the token.
const SessionCookie = "session"

// ErrInvalidSession covers malformed, tampered and expired tokens alike.
var ErrInvalidSession = errors.New("invalid or expired session")

type sessionClaims struct {
	User models.Identity `json:"user"`
	jwt.RegisteredClaims
}

// SessionAuthority issues and verifies signed, time-bounded session tokens.
// Verification is stateless; there is no server-side session store.
type SessionAuthority struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionAuthority fails on an empty secret: signing material must come
// from deployment configuration, there is no default.
func NewSessionAuthority(secret string, ttl time.Duration) (*SessionAuthority, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = models.SessionTTLHours * time.Hour
	}
	return &SessionAuthority{secret: []byte(secret), ttl: ttl}, nil
}

// Issue produces an HS256 token carrying the full identity payload and an
// expiration instant ttl from now.
func (a *SessionAuthority) Issue(identity models.Identity) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(a.ttl)

	claims := sessionClaims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify validates signature, shape and expiry. Any failure collapses to
// ErrInvalidSession; callers re-authenticate, there is no refresh path.
func (a *SessionAuthority) Verify(tokenStr string) (models.Identity, error) {
	if tokenStr == "" {
		return models.Identity{}, ErrInvalidSession
	}

	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return models.Identity{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return models.Identity{}, ErrInvalidSession
	}
	return claims.User, nil
}

// SetCookie persists the token to the user agent, HTTP-only, whole origin.
func SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie overwrites the credential with an already-expired one.
// Idempotent; this is the whole of logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
