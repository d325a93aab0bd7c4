package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reelist/internal/domain"
	"reelist/internal/dto"
	"reelist/internal/observability/metrics"
	"reelist/internal/service"
	"reelist/internal/store"

	"github.com/google/uuid"
)

type AccountServiceImpl struct {
	Store           dataStore
	OtpService      service.OtpService
	EmailService    service.EmailService
	PasswordService service.PasswordService
	TService        service.TokenService

	now func() time.Time
}

func NewAccountServiceImpl(st *store.Store, otp service.OtpService, email service.EmailService, pw service.PasswordService, tokens service.TokenService) *AccountServiceImpl {
	return &AccountServiceImpl{
		Store:           gormStoreAdapter{store: st},
		OtpService:      otp,
		EmailService:    email,
		PasswordService: pw,
		TService:        tokens,
		now:             time.Now,
	}
}

// Narrow store interfaces so tests can plug an in-memory implementation.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
	Otps() otpStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type otpStore interface {
	Upsert(ctx context.Context, p *domain.PendingOtp) error
	GetByEmail(ctx context.Context, email string) (*domain.PendingOtp, error)
	Delete(ctx context.Context, email string) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func (g gormTxAdapter) Otps() otpStore { return g.tx.Otps() }

// RequestOtp checks email uniqueness, persists a pending OTP (a repeated
// request for the same email overwrites the earlier code) and dispatches it.
// The OTP is committed before dispatch: if delivery fails the user cannot read
// the code, but a retried request simply overwrites it.
func (a *AccountServiceImpl) RequestOtp(ctx context.Context, email string) error {
	result := "success"
	defer func() {
		metrics.OtpRequestsTotal.WithLabelValues(result).Inc()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		result = "invalid"
		return ErrEmptyCredential
	}
	if !looksLikeEmail(email) {
		result = "invalid"
		return ErrInvalidEmail
	}

	pending, err := a.OtpService.Generate(email)
	if err != nil {
		result = "failure"
		return fmt.Errorf("generate code: %w", err)
	}

	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		// Registered emails never reach the otps table.
		_, err := tx.Users().GetByEmail(ctx, email)
		if err == nil {
			return domain.ErrDuplicateAccount
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			slog.Error("user lookup failed", "error", err)
			return errors.New("store unavailable")
		}
		return tx.Otps().Upsert(ctx, pending)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			result = "duplicate"
		} else {
			result = "failure"
		}
		return err
	}

	if err := a.EmailService.SendOtp(ctx, email, pending.Otp, pending.ExpiresAt.Sub(a.now())); err != nil {
		result = "notification_failure"
		slog.Error("otp dispatch failed", "error", err)
		return domain.ErrNotificationFailed
	}
	return nil
}

// VerifyAndCreate redeems the pending OTP and creates the account. User
// insert and OTP delete happen in one transaction; the unique constraints on
// users are the only serialization point between concurrent verifies, so the
// loser of that race surfaces ErrAccountCreationFailed.
func (a *AccountServiceImpl) VerifyAndCreate(ctx context.Context, r dto.SignupRequest, ip, ua string) (*dto.SignupResponse, error) {
	result := "success"
	defer func() {
		metrics.SignupsTotal.WithLabelValues(result).Inc()
	}()

	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	if r.Email == "" || r.Username == "" || r.Otp == "" {
		result = "invalid"
		return nil, ErrEmptyCredential
	}
	if len(r.Password) < 8 {
		result = "invalid"
		return nil, ErrPasswordLength
	}

	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	var user *domain.User
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		pending, err := tx.Otps().GetByEmail(ctx, r.Email)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			slog.Error("otp lookup failed", "error", err)
			return errors.New("store unavailable")
		}
		// Missing record, wrong code and expiry all collapse to the same
		// outcome; the caller learns nothing beyond "invalid or expired".
		if !a.OtpService.Validate(pending, r.Otp, a.now().UTC()) {
			return domain.ErrInvalidOtp
		}

		now := a.now().UTC()
		u := &domain.User{
			ID:           uuid.New(),
			Email:        r.Email,
			Username:     r.Username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			// Unique email/username violations land here, including the
			// concurrent-signup race.
			slog.Warn("user insert rejected", "error", err)
			return domain.ErrAccountCreationFailed
		}
		if err := tx.Otps().Delete(ctx, r.Email); err != nil {
			slog.Error("otp delete failed", "error", err)
			return errors.New("store unavailable")
		}
		user = u
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOtp):
			result = "invalid_otp"
		case errors.Is(err, domain.ErrAccountCreationFailed):
			result = "creation_failed"
		default:
			result = "failure"
		}
		return nil, err
	}

	resp := &dto.SignupResponse{UserID: user.ID.String(), Username: user.Username}

	// Auto-login after signup. A token failure does not undo the account.
	if a.TService != nil {
		tokens, err := a.TService.Issue(ctx, user, ip, ua)
		if err != nil {
			slog.Warn("post-signup token issue failed", "user_id", user.ID, "error", err)
		} else {
			resp.Tokens = tokens
		}
	}
	return resp, nil
}

func (a *AccountServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Password == "" {
		result = "invalid"
		return nil, ErrEmptyCredential
	}

	var tokens *dto.TokenResponse
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByEmail(ctx, r.Email)
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}
		if !a.PasswordService.Verify(r.Password, user.PasswordHash) {
			return domain.ErrInvalidCredentials
		}
		tr, err := a.TService.Issue(ctx, user, ip, ua)
		if err != nil {
			return err
		}
		tokens = tr
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}
	return tokens, nil
}

// Logout revokes the backing session. Failure is reported but non-fatal for
// the caller: the client tier clears its local state regardless.
func (a *AccountServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.TService.RevokeByRefreshToken(ctx, refreshToken); err != nil {
		slog.Warn("logout failed", "error", err)
		return domain.ErrLogoutFailed
	}
	return nil
}

func looksLikeEmail(s string) bool { return strings.ContainsRune(s, '@') }
