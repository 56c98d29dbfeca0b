package middleware

import (
	"context"
	"net/http"
	"strings"

	goCred "github.com/MrEthical07/goCred"
)

// Authenticator is the subset of *goCred.Engine the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*goCred.AuthResult, error)
}

// Options controls where tokens are read from and how the cookie is written.
type Options struct {
	CookieName  string
	Secure      bool
	SameSite    http.SameSite
	AllowBearer bool
}

// DefaultCookieName is the cookie used when Options.CookieName is empty.
const DefaultCookieName = "auth-token"

// DefaultOptions returns cookie-only options with a Secure, SameSite=Lax
// "auth-token" cookie.
func DefaultOptions() Options {
	return Options{
		CookieName: DefaultCookieName,
		Secure:     true,
		SameSite:   http.SameSiteLaxMode,
	}
}

func (o Options) cookieName() string {
	if o.CookieName == "" {
		return DefaultCookieName
	}
	return o.CookieName
}

type authResultContextKey struct{}

// AuthResultFromContext returns the result attached by Resolve.
func AuthResultFromContext(ctx context.Context) (*goCred.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*goCred.AuthResult)
	return res, ok && res != nil
}

// Resolve authenticates the request token, if any, and attaches the result.
// It never rejects a request.
func Resolve(auth Authenticator, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, fromCookie := requestToken(r, opts)
			if raw == "" || auth == nil {
				next.ServeHTTP(w, r)
				return
			}

			res, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				if fromCookie {
					ClearTokenCookie(w, opts)
				}
				next.ServeHTTP(w, r)
				return
			}

			if fromCookie {
				SetTokenCookie(w, opts, res.Token, res.ExpiresAt)
			} else {
				w.Header().Set("X-Auth-Token", res.Token)
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth responds 401 unless Resolve attached a result.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AuthResultFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Guard rejects unauthenticated requests with 401.
func Guard(auth Authenticator, opts Options) func(http.Handler) http.Handler {
	resolve := Resolve(auth, opts)
	return func(next http.Handler) http.Handler {
		return resolve(RequireAuth(next))
	}
}

// requestToken prefers the cookie over the header.
func requestToken(r *http.Request, opts Options) (string, bool) {
	if c, err := r.Cookie(opts.cookieName()); err == nil && c.Value != "" {
		return c.Value, true
	}

	if opts.AllowBearer {
		if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
			return token, false
		}
	}

	return "", false
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
