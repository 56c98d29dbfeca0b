// Package middleware adapts goCred.Engine token authentication to net/http.
//
// # Handlers
//
//   - [Resolve] authenticates the request token when present and attaches the
//     result to the context. Requests without a valid token pass through.
//   - [RequireAuth] rejects requests that Resolve did not authenticate.
//   - [Guard] is Resolve followed by RequireAuth.
//
// The token is read from the configured cookie, or from an
// "Authorization: Bearer" header when Options.AllowBearer is set. Every
// successful authentication re-sets the cookie with the refreshed token, so
// an active client keeps a sliding expiry. Header-authenticated requests get
// the refreshed token in the X-Auth-Token response header. Any failure other than a missing
// token removes the cookie.
//
// # What this package must NOT do
//
//   - Parse or sign tokens itself (delegates to the Authenticator).
//   - Tell the client why a token was rejected.
package middleware
