package goCred

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrEthical07/goCred/internal/audit"
	"github.com/MrEthical07/goCred/internal/rate"
	"github.com/MrEthical07/goCred/password"
	"github.com/MrEthical07/goCred/token"
)

// Engine authenticates users by password and by session token. Build it
// with [Builder]; it is safe for concurrent use.
type Engine struct {
	config       Config
	hasher       *password.Hasher
	tokens       *token.Manager
	userProvider UserProvider
	rateLimiter  *rate.Limiter
	metrics      *Metrics
	audit        *audit.Dispatcher
	logger       *zap.Logger
}

// Close flushes buffered audit events and stops the dispatcher. The engine
// keeps serving requests afterwards, without auditing.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return emptySnapshot()
	}
	return e.metrics.Snapshot()
}

// TokenTTL returns the lifetime of issued tokens.
func (e *Engine) TokenTTL() time.Duration {
	if e == nil || e.tokens == nil {
		return 0
	}
	return e.tokens.TTL()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.hasher != nil && e.tokens != nil && e.userProvider != nil
}

// Login checks identifier and pwd and issues a session token.
//
// Every password-side failure returns ErrInvalidCredentials. A hash produced
// by an outdated scheme, or by weaker Argon2 costs, is rewritten on success
// when Password.UpgradeOnLogin is set; a failed rewrite is logged and does
// not fail the login.
func (e *Engine) Login(ctx context.Context, identifier, pwd string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)
	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, identifier, ip); err != nil {
			if !errors.Is(err, rate.ErrRateLimited) {
				e.logger.Warn("login limiter check failed", zap.Error(err))
			}
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, nil)
			return nil, ErrLoginRateLimited
		}
	}

	if pwd == "" {
		return nil, e.loginFailure(ctx, identifier, ip, "", "empty_password")
	}

	user, err := e.userProvider.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.logger.Warn("user lookup failed", zap.Error(err))
		}
		return nil, e.loginFailure(ctx, identifier, ip, "", "user_not_found")
	}

	status, err := e.validatePassword(user, pwd)
	if err != nil {
		reason := "password_mismatch"
		if !errors.Is(err, password.ErrPasswordMismatch) {
			reason = "stored_hash_unusable"
			e.logger.Warn("stored password hash rejected",
				zap.String("user_id", user.UserID),
				zap.Error(err))
		}
		return nil, e.loginFailure(ctx, identifier, ip, user.UserID, reason)
	}

	upgraded := false
	if e.config.Password.UpgradeOnLogin && e.needsRehash(user, status) {
		upgraded = e.upgradePassword(ctx, user, pwd)
	}

	subject := user.Identifier
	if subject == "" {
		subject = identifier
	}

	tok, err := e.tokens.Issue(subject, user.TokenSalt.String())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	e.metricInc(MetricTokenIssued)

	if e.rateLimiter != nil {
		if err := e.rateLimiter.ResetLogin(ctx, identifier, ip); err != nil {
			e.logger.Warn("login limiter reset failed", zap.Error(err))
		}
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, nil, nil)
	e.logger.Debug("login succeeded",
		zap.String("user_id", user.UserID),
		zap.Bool("password_upgraded", upgraded))

	return &LoginResult{
		UserID:           user.UserID,
		Identifier:       subject,
		Token:            tok.String(),
		ExpiresAt:        expiresAt(tok),
		PasswordUpgraded: upgraded,
	}, nil
}

func (e *Engine) loginFailure(ctx context.Context, identifier, ip, userID, reason string) error {
	if e.rateLimiter != nil {
		if err := e.rateLimiter.IncrementLogin(ctx, identifier, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, userID, ErrLoginRateLimited, reasonMetadata(reason))
				return ErrLoginRateLimited
			}
			e.logger.Warn("login limiter increment failed", zap.Error(err))
		}
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, userID, ErrInvalidCredentials, reasonMetadata(reason))
	e.logger.Debug("login failed",
		zap.String("reason", reason),
		zap.String("user_id", userID))

	return ErrInvalidCredentials
}

// Authenticate validates a wire token against its subject's token salt and
// returns a refreshed token.
//
// An expired but correctly signed token returns ErrTokenExpired; every other
// failure returns ErrUnauthorized.
func (e *Engine) Authenticate(ctx context.Context, rawToken string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	tok, err := token.Parse(rawToken)
	if err != nil {
		return nil, e.tokenRejected(ctx, "malformed", "")
	}

	user, err := e.userProvider.GetUserByIdentifier(ctx, tok.Ident)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.logger.Warn("user lookup failed", zap.Error(err))
		}
		return nil, e.tokenRejected(ctx, "unknown_subject", "")
	}

	salt := user.TokenSalt.String()
	if err := e.tokens.Validate(tok, salt); err != nil {
		if errors.Is(err, token.ErrExpired) {
			e.metricInc(MetricTokenExpired)
			e.emitAudit(ctx, auditEventTokenExpired, false, user.UserID, ErrTokenExpired, nil)
			return nil, ErrTokenExpired
		}
		return nil, e.tokenRejected(ctx, tokenReason(err), user.UserID)
	}
	e.metricInc(MetricTokenValidated)

	fresh, err := e.tokens.Issue(tok.Ident, salt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	e.metricInc(MetricTokenIssued)

	return &AuthResult{
		UserID:     user.UserID,
		Identifier: tok.Ident,
		Token:      fresh.String(),
		ExpiresAt:  expiresAt(fresh),
	}, nil
}

func (e *Engine) tokenRejected(ctx context.Context, reason, userID string) error {
	e.metricInc(MetricTokenRejected)
	e.emitAudit(ctx, auditEventTokenRejected, false, userID, ErrUnauthorized, reasonMetadata(reason))
	e.logger.Debug("token rejected",
		zap.String("reason", reason),
		zap.String("user_id", userID))
	return ErrUnauthorized
}

func tokenReason(err error) string {
	switch {
	case errors.Is(err, token.ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, token.ErrExpNotRFC3339):
		return "bad_exp"
	default:
		return "invalid"
	}
}

// SetPassword stores a new password for userID under the default scheme and
// rotates the user's token salt, revoking every outstanding token.
func (e *Engine) SetPassword(ctx context.Context, userID, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if userID == "" || newPassword == "" {
		return ErrPasswordPolicy
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return errors.Join(ErrCredentialUpdateFailed, err)
	}

	stored, err := e.hashPassword(password.ContentToHash{Content: newPassword, Salt: user.PasswordSalt})
	if err != nil {
		return errors.Join(ErrPasswordPolicy, err)
	}

	if err := e.userProvider.UpdatePasswordHash(ctx, userID, stored); err != nil {
		return errors.Join(ErrCredentialUpdateFailed, err)
	}
	e.metricInc(MetricPasswordSet)
	e.emitAudit(ctx, auditEventPasswordSet, true, userID, nil, nil)

	if err := e.RevokeTokens(ctx, userID); err != nil {
		e.logger.Warn("token revocation failed after password change",
			zap.String("user_id", userID),
			zap.Error(err))
		return err
	}

	if e.rateLimiter != nil && user.Identifier != "" {
		if err := e.rateLimiter.ResetLogin(ctx, user.Identifier, clientIPFromContext(ctx)); err != nil {
			e.logger.Warn("login limiter reset failed after password change", zap.Error(err))
		}
	}

	return nil
}

// RevokeTokens rotates the token salt of userID. Tokens issued before the
// rotation fail signature validation afterwards.
func (e *Engine) RevokeTokens(ctx context.Context, userID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.userProvider.UpdateTokenSalt(ctx, userID, uuid.New()); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return errors.Join(ErrCredentialUpdateFailed, err)
	}

	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventTokensRevoked, true, userID, nil, nil)
	return nil
}

// Register creates an account through the provider's [UserCreator]
// capability. Fresh password and token salts are generated here.
func (e *Engine) Register(ctx context.Context, identifier, pwd string) (UserRecord, error) {
	if !e.ready() {
		return UserRecord{}, ErrEngineNotReady
	}

	creator, ok := e.userProvider.(UserCreator)
	if !ok {
		return UserRecord{}, ErrAccountCreationDisabled
	}
	if identifier == "" || pwd == "" {
		return UserRecord{}, ErrPasswordPolicy
	}

	pwdSalt := uuid.New()
	stored, err := e.hashPassword(password.ContentToHash{Content: pwd, Salt: pwdSalt})
	if err != nil {
		return UserRecord{}, errors.Join(ErrPasswordPolicy, err)
	}

	rec, err := creator.CreateUser(ctx, CreateUserInput{
		Identifier:   identifier,
		PasswordHash: stored,
		PasswordSalt: pwdSalt,
		TokenSalt:    uuid.New(),
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.emitAudit(ctx, auditEventAccountDuplicate, false, "", ErrAccountExists, nil)
			return UserRecord{}, ErrAccountExists
		}
		return UserRecord{}, errors.Join(ErrCredentialUpdateFailed, err)
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventAccountCreated, true, rec.UserID, nil, nil)
	return rec, nil
}

func (e *Engine) validatePassword(user UserRecord, pwd string) (password.SchemeStatus, error) {
	defer e.observeHash(time.Now())
	return e.hasher.Validate(password.ContentToHash{Content: pwd, Salt: user.PasswordSalt}, user.PasswordHash)
}

func (e *Engine) hashPassword(c password.ContentToHash) (string, error) {
	defer e.observeHash(time.Now())
	return e.hasher.Hash(c)
}

func (e *Engine) observeHash(start time.Time) {
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricHashLatency, time.Since(start))
	}
}

func (e *Engine) needsRehash(user UserRecord, status password.SchemeStatus) bool {
	if status == password.StatusOutdated {
		return true
	}

	needs, err := e.hasher.NeedsRehash(user.PasswordHash)
	return err == nil && needs
}

// upgradePassword is best effort: the login already succeeded.
func (e *Engine) upgradePassword(ctx context.Context, user UserRecord, pwd string) bool {
	stored, err := e.hashPassword(password.ContentToHash{Content: pwd, Salt: user.PasswordSalt})
	if err != nil {
		e.metricInc(MetricPasswordRehashFailure)
		e.logger.Warn("password rehash failed", zap.String("user_id", user.UserID), zap.Error(err))
		return false
	}

	if err := e.userProvider.UpdatePasswordHash(ctx, user.UserID, stored); err != nil {
		e.metricInc(MetricPasswordRehashFailure)
		e.emitAudit(ctx, auditEventPasswordRehash, false, user.UserID, ErrCredentialUpdateFailed, nil)
		e.logger.Warn("password rehash write failed", zap.String("user_id", user.UserID), zap.Error(err))
		return false
	}

	e.metricInc(MetricPasswordRehash)
	e.emitAudit(ctx, auditEventPasswordRehash, true, user.UserID, nil, func() map[string]string {
		return map[string]string{"scheme": string(password.DefaultScheme)}
	})
	return true
}

func expiresAt(t token.Token) time.Time {
	exp, err := time.Parse(time.RFC3339, t.Exp)
	if err != nil {
		return time.Time{}
	}
	return exp
}
