package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelist/internal/domain"
	"reelist/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTokenService(t *testing.T) (*TokenServiceImpl, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	st := store.New(db)
	svc := NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://test",
		Audience:   "test-clients",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		SigningKey: []byte("test-signing-key"),
	}, st)
	return svc, st
}

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@x.com", Username: uuid.NewString()}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, _ := setupTokenService(t)
	user := testUser()

	tokens, err := svc.Issue(context.Background(), user, "127.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", tokens)
	}
	if tokens.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiresIn: %d", tokens.ExpiresIn)
	}

	userID, err := svc.VerifyAccess(tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, userID)
	}

	if _, err := svc.VerifyAccess(tokens.RefreshToken + "x"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}

func TestVerifyAccessRejectsForeignIssuer(t *testing.T) {
	svc, st := setupTokenService(t)
	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://someone-else",
		Audience:   "test-clients",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		SigningKey: []byte("test-signing-key"),
	}, st)

	tokens, err := other.Issue(context.Background(), testUser(), "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.VerifyAccess(tokens.AccessToken); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestRefreshRotatesRefreshID(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()

	tokens, err := svc.Issue(ctx, testUser(), "127.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken, "127.0.0.2", "unit-test")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}

	// The old refresh token is bound to the retired refresh id.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken, "", ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for a stale refresh token, got %v", err)
	}
	if _, err := svc.Refresh(ctx, refreshed.RefreshToken, "", ""); err != nil {
		t.Fatalf("rotated refresh token should work: %v", err)
	}
}

func TestRevokeByRefreshTokenBlocksRefresh(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()

	tokens, err := svc.Issue(ctx, testUser(), "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.RevokeByRefreshToken(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken, "", ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for a revoked session, got %v", err)
	}
}
