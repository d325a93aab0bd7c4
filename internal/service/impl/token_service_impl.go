package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"reelist/internal/domain"
	"reelist/internal/dto"
	"reelist/internal/observability/metrics"
	"reelist/internal/observability/middleware"
	"reelist/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const maxUserAgentLength = 512

type TokenConfig struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SigningKey []byte // HS256 secret
}

type AccessClaims struct {
	SID string `json:"sid"` // session id
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	SID                  string `json:"sid"` // session id
	jwt.RegisteredClaims        // jti == refresh_id
}

type TokenServiceImpl struct {
	cfg   TokenConfig
	store *store.Store
}

func NewTokenServiceHS256(cfg TokenConfig, st *store.Store) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, store: st}
}

// Issue creates a Session row (with a fresh RefreshID) and returns access+refresh tokens.
func (t *TokenServiceImpl) Issue(ctx context.Context, user *domain.User, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("issue", result).Inc()
	}()
	now := time.Now().UTC()

	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		RefreshID: uuid.New(),
		ExpiresAt: now.Add(t.cfg.RefreshTTL),
		CreatedAt: now,
		IP:        ip,
		UserAgent: truncateUserAgent(ua),
	}
	if err := t.store.Sessions().Create(ctx, sess); err != nil {
		result = "failure"
		return nil, err
	}

	access, err := t.signAccess(user.ID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refresh, err := t.signRefresh(user.ID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("issued tokens",
		"session_id", sess.ID,
		"user_id", user.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

// Refresh validates the refresh JWT, checks session state, rotates the refresh
// id, and returns new tokens.
func (t *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()
	now := time.Now().UTC()

	sess, err := t.lookupSession(ctx, refreshToken)
	if err != nil {
		result = "failure"
		return nil, err
	}
	if sess.RevokedAt != nil || now.After(sess.ExpiresAt) {
		result = "failure"
		return nil, domain.ErrInvalidToken
	}

	newRID := uuid.New()
	newExp := now.Add(t.cfg.RefreshTTL)
	if err := t.store.Sessions().Rotate(ctx, sess.ID, newRID, newExp, ip, truncateUserAgent(ua)); err != nil {
		result = "failure"
		return nil, err
	}
	sess.RefreshID = newRID
	sess.ExpiresAt = newExp

	accessJWT, err := t.signAccess(sess.UserID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refreshJWT, err := t.signRefresh(sess.UserID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("refreshed tokens",
		"session_id", sess.ID,
		"user_id", sess.UserID,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	return &dto.TokenResponse{
		AccessToken:  accessJWT,
		RefreshToken: refreshJWT,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceImpl) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	sess, err := t.lookupSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	return t.store.Sessions().Revoke(ctx, sess.ID, time.Now().UTC())
}

// VerifyAccess validates an access JWT and returns its subject user id.
func (t *TokenServiceImpl) VerifyAccess(tokenStr string) (domain.UserID, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}
	if claims.Issuer != t.cfg.Issuer || !containsAudience(claims.Audience, t.cfg.Audience) {
		return uuid.Nil, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return userID, nil
}

// ====== Helpers ======

func (t *TokenServiceImpl) lookupSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	parsed, claims, err := t.parseRefresh(refreshToken)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	rid, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	sess, err := t.store.Sessions().GetByRefreshID(ctx, rid)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return sess, nil
}

func (t *TokenServiceImpl) signAccess(userID uuid.UUID, sess *domain.Session, now time.Time) (string, error) {
	claims := AccessClaims{
		SID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(), // unique per access token
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) signRefresh(userID uuid.UUID, sess *domain.Session, now time.Time) (string, error) {
	claims := RefreshClaims{
		SID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sess.RefreshID.String(), // bind JWT to DB session row
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) parseRefresh(tokenStr string) (*jwt.Token, *RefreshClaims, error) {
	claims := &RefreshClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, nil, errors.New("bad issuer")
	}
	if !containsAudience(claims.Audience, t.cfg.Audience) {
		return nil, nil, errors.New("bad audience")
	}
	return tok, claims, nil
}

func containsAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}

func truncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= maxUserAgentLength {
		return ua
	}
	runes := []rune(ua)
	return string(runes[:maxUserAgentLength])
}
