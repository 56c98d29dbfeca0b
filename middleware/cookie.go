package middleware

import (
	"net/http"
	"time"
)

// SetTokenCookie writes the session cookie. The cookie is HttpOnly, scoped
// to "/" and expires with the token.
func SetTokenCookie(w http.ResponseWriter, opts Options, token string, expiresAt time.Time) {
	c := &http.Cookie{
		Name:     opts.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	if !expiresAt.IsZero() {
		c.Expires = expiresAt.UTC()
	}
	http.SetCookie(w, c)
}

// ClearTokenCookie tells the client to drop the session cookie.
func ClearTokenCookie(w http.ResponseWriter, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.cookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
