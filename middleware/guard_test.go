package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goCred "github.com/MrEthical07/goCred"
)

type fakeAuth struct {
	valid map[string]*goCred.AuthResult
	err   error
	calls int
}

func (f *fakeAuth) Authenticate(_ context.Context, raw string) (*goCred.AuthResult, error) {
	f.calls++
	if res, ok := f.valid[raw]; ok {
		return res, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, goCred.ErrUnauthorized
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{valid: map[string]*goCred.AuthResult{
		"good": {
			UserID:     "u1",
			Identifier: "demo1",
			Token:      "refreshed",
			ExpiresAt:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := AuthResultFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(res.Identifier))
	})
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestGuardAcceptsCookieAndRefreshes(t *testing.T) {
	auth := newFakeAuth()
	h := Guard(auth, DefaultOptions())(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "good"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo1", rec.Body.String())

	c := cookieNamed(t, rec, DefaultCookieName)
	require.NotNil(t, c)
	assert.Equal(t, "refreshed", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 2030, c.Expires.Year())
}

func TestGuardRejectsMissingToken(t *testing.T) {
	auth := newFakeAuth()
	h := Guard(auth, DefaultOptions())(echoUser())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, cookieNamed(t, rec, DefaultCookieName), "no cookie should be touched without a token")
	assert.Zero(t, auth.calls)
}

func TestGuardRejectsBadTokenAndClearsCookie(t *testing.T) {
	for name, err := range map[string]error{
		"unauthorized": goCred.ErrUnauthorized,
		"expired":      goCred.ErrTokenExpired,
	} {
		t.Run(name, func(t *testing.T) {
			auth := newFakeAuth()
			auth.err = err
			h := Guard(auth, DefaultOptions())(echoUser())

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "stale"})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized\n", rec.Body.String())

			c := cookieNamed(t, rec, DefaultCookieName)
			require.NotNil(t, c)
			assert.Empty(t, c.Value)
			assert.Less(t, c.MaxAge, 0)
		})
	}
}

func TestResolvePassesAnonymousThrough(t *testing.T) {
	h := Resolve(newFakeAuth(), DefaultOptions())(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "bad"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestBearerHeader(t *testing.T) {
	opts := DefaultOptions()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	rec := httptest.NewRecorder()
	Guard(newFakeAuth(), opts)(echoUser()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "bearer must be opt-in")

	opts.AllowBearer = true
	rec = httptest.NewRecorder()
	Guard(newFakeAuth(), opts)(echoUser()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "refreshed", rec.Header().Get("X-Auth-Token"))
	assert.Nil(t, cookieNamed(t, rec, DefaultCookieName))
}

func TestBearerToken(t *testing.T) {
	for value, want := range map[string]bool{
		"Bearer abc": true,
		"Bearer ":    false,
		"bearer abc": false,
		"Basic abc":  false,
		"":           false,
	} {
		_, ok := bearerToken(value)
		assert.Equal(t, want, ok, value)
	}
}

func TestCustomCookieName(t *testing.T) {
	opts := DefaultOptions()
	opts.CookieName = "sid"
	opts.Secure = false

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "good"})
	rec := httptest.NewRecorder()
	Guard(newFakeAuth(), opts)(echoUser()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	c := cookieNamed(t, rec, "sid")
	require.NotNil(t, c)
	assert.False(t, c.Secure)
}
