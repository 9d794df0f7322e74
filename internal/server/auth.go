package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminCookieName = "mf_admin"
	adminTokenTTL   = 12 * time.Hour
)

var errNoAdminSession = errors.New("no valid admin session")

// issueAdminToken mints the signed token stored in the admin cookie.
func issueAdminToken(secret string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(adminTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"nbf":  now.Unix(),
		"exp":  expires.Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing admin token: %w", err)
	}
	return signed, expires, nil
}

func verifyAdminToken(secret, raw string) error {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return errNoAdminSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return errNoAdminSession
	}
	return nil
}

// adminFromRequest checks the mf_admin cookie for a valid admin token.
func adminFromRequest(r *http.Request, jwtSecret string) error {
	if jwtSecret == "" {
		return errNoAdminSession
	}
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return errNoAdminSession
	}
	return verifyAdminToken(jwtSecret, cookie.Value)
}

// validConnectorKey compares the caller-supplied ingest key against the
// configured one without leaking match position through timing.
func validConnectorKey(provided, expected string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
