package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/security"
	"aiagents-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reason explains why a token did or did not resolve to a session.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonMissingToken     Reason = "missing_token"
	ReasonMalformed        Reason = "malformed"
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonExpired          Reason = "expired"
	ReasonWrongTokenType   Reason = "wrong_token_type"
	ReasonRevoked          Reason = "revoked"
	ReasonSessionExpired   Reason = "session_expired"
	ReasonUserNotFound     Reason = "user_not_found"
	ReasonUserInactive     Reason = "user_inactive"
	ReasonStoreError       Reason = "store_error"
)

// Resolution is the outcome of Resolve. Session, User and Claims are only
// set when Reason is ReasonOK. Err carries the underlying store error for
// ReasonStoreError.
type Resolution struct {
	Reason  Reason
	Session *models.Session
	User    *models.User
	Claims  *security.Claims
	Token   string
	Err     error
}

func (r Resolution) OK() bool {
	return r.Reason == ReasonOK
}

// TokenPair is what Create and Refresh hand back to the transport layer.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	SessionID        uint      `json:"sessionId"`
}

// SessionStore persists issued token pairs and resolves callers from a raw
// access token. A session row's presence is the only source of truth for
// revocation.
type SessionStore struct {
	db          *gorm.DB
	tokens      *security.TokenIssuer
	denylist    *Denylist
	users       *UserCache
	maxSessions int
	now         func() time.Time
}

func NewSessionStore(db *gorm.DB, tokens *security.TokenIssuer, denylist *Denylist, users *UserCache, maxSessions int) *SessionStore {
	return &SessionStore{
		db:          db,
		tokens:      tokens,
		denylist:    denylist,
		users:       users,
		maxSessions: maxSessions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionStore) issuePair(user models.User) (*TokenPair, error) {
	id := security.Identity{UserID: user.ID, Email: user.Email, Role: string(user.Role)}

	access, accessExp, err := s.tokens.IssueAccessToken(id)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(id)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp.UTC(),
		RefreshExpiresAt: refreshExp.UTC(),
	}, nil
}

// Create issues a token pair for user and stores it as one new session row.
func (s *SessionStore) Create(ctx context.Context, user models.User, userAgent, ipAddress string) (*TokenPair, error) {
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	session := models.Session{
		UserID:           user.ID,
		AccessTokenHash:  security.HashToken(pair.AccessToken),
		RefreshTokenHash: security.HashToken(pair.RefreshToken),
		UserAgent:        truncate(userAgent, 255),
		IPAddress:        truncate(ipAddress, 64),
		ExpiresAt:        pair.RefreshExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	pair.SessionID = session.ID

	if err := s.pruneOldest(ctx, user.ID); err != nil {
		logger.Log.Warn("session prune failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return pair, nil
}

// pruneOldest keeps at most maxSessions rows per user, newest first.
func (s *SessionStore) pruneOldest(ctx context.Context, userID uint) error {
	if s.maxSessions <= 0 {
		return nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) <= s.maxSessions {
		return nil
	}

	return s.db.WithContext(ctx).Where("id IN ?", ids[s.maxSessions:]).Delete(&models.Session{}).Error
}

// Resolve runs every check on rawToken and reports the first one that fails.
func (s *SessionStore) Resolve(ctx context.Context, rawToken string) Resolution {
	if rawToken == "" {
		return Resolution{Reason: ReasonMissingToken}
	}

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			return Resolution{Reason: ReasonExpired}
		case errors.Is(err, security.ErrTokenInvalidSignature):
			return Resolution{Reason: ReasonInvalidSignature}
		default:
			return Resolution{Reason: ReasonMalformed}
		}
	}
	if claims.Type != security.TokenTypeAccess {
		return Resolution{Reason: ReasonWrongTokenType}
	}

	revoked, err := s.denylist.Contains(ctx, rawToken)
	if err != nil {
		logger.Log.Warn("denylist lookup failed", zap.Error(err))
	} else if revoked {
		return Resolution{Reason: ReasonRevoked}
	}

	var session models.Session
	err = s.db.WithContext(ctx).Where("access_token_hash = ?", security.HashToken(rawToken)).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{Reason: ReasonRevoked}
		}
		return Resolution{Reason: ReasonStoreError, Err: err}
	}
	if session.UserID != claims.UserID {
		return Resolution{Reason: ReasonRevoked}
	}
	if !session.ExpiresAt.After(s.now()) {
		return Resolution{Reason: ReasonSessionExpired}
	}

	user, err := s.users.LoadUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Resolution{Reason: ReasonUserNotFound}
		}
		return Resolution{Reason: ReasonStoreError, Err: err}
	}
	if !user.IsActive() {
		return Resolution{Reason: ReasonUserInactive}
	}

	return Resolution{
		Reason:  ReasonOK,
		Session: &session,
		User:    &user,
		Claims:  claims,
		Token:   rawToken,
	}
}

// ResolveSession is Resolve collapsed to nil for any failure.
func (s *SessionStore) ResolveSession(ctx context.Context, rawToken string) *Resolution {
	res := s.Resolve(ctx, rawToken)
	if !res.OK() {
		return nil
	}
	return &res
}

// Destroy deletes every session row matching token as either its access or
// refresh token. Destroying an absent session is not an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	hash := security.HashToken(token)
	err := s.db.WithContext(ctx).
		Where("access_token_hash = ? OR refresh_token_hash = ?", hash, hash).
		Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	if claims, err := s.tokens.Verify(token); err == nil && claims.ExpiresAt != nil {
		if err := s.denylist.Add(ctx, token, time.Until(claims.ExpiresAt.Time)); err != nil {
			logger.Log.Warn("denylist add failed", zap.Error(err))
		}
	}
	return nil
}

// Refresh rotates the token pair of the session owning refreshToken. The
// previous access token stops resolving because its hash is replaced.
func (s *SessionStore) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*models.User, *TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken.Wrap(err)
	}

	var session models.Session
	oldHash := security.HashToken(refreshToken)
	if err := s.db.WithContext(ctx).Where("refresh_token_hash = ?", oldHash).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, err
	}
	if session.UserID != claims.UserID {
		return nil, nil, ErrInvalidRefreshToken
	}
	if !session.ExpiresAt.After(s.now()) {
		_ = s.db.WithContext(ctx).Delete(&session).Error
		return nil, nil, ErrInvalidRefreshToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, err
	}
	if !user.IsActive() {
		_ = s.db.WithContext(ctx).Delete(&session).Error
		return nil, nil, ErrInvalidRefreshToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{
		"access_token_hash":  security.HashToken(pair.AccessToken),
		"refresh_token_hash": security.HashToken(pair.RefreshToken),
		"expires_at":         pair.RefreshExpiresAt,
	}
	if userAgent != "" {
		updates["user_agent"] = truncate(userAgent, 255)
	}
	if ipAddress != "" {
		updates["ip_address"] = truncate(ipAddress, 64)
	}

	result := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND refresh_token_hash = ?", session.ID, oldHash).
		Updates(updates)
	if result.Error != nil {
		return nil, nil, fmt.Errorf("rotate session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil, ErrInvalidRefreshToken
	}

	if err := s.denylist.Add(ctx, refreshToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		logger.Log.Warn("denylist add failed", zap.Error(err))
	}

	pair.SessionID = session.ID
	return &user, pair, nil
}

func (s *SessionStore) ListForUser(ctx context.Context, userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, s.now()).
		Order("created_at desc").
		Find(&sessions).Error
	return sessions, err
}

// DestroyByID revokes one of userID's own sessions.
func (s *SessionStore) DestroyByID(ctx context.Context, userID, sessionID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DestroyAllForUser revokes every session of userID except exceptID (0 keeps
// none) and returns how many rows were removed.
func (s *SessionStore) DestroyAllForUser(ctx context.Context, userID, exceptID uint) (int64, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	result := q.Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// SweepExpired removes rows whose absolute expiry has passed.
func (s *SessionStore) SweepExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
