package impl

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"reelist/internal/domain"
)

const otpDigits = 6

var otpMax = big.NewInt(1_000_000) // 10^otpDigits

// OtpServiceImpl issues 6-digit numeric codes. Codes come from crypto/rand so
// they cannot be guessed within the validity window.
type OtpServiceImpl struct {
	ttl time.Duration
	now func() time.Time
}

func NewOtpService(ttl time.Duration) *OtpServiceImpl {
	return &OtpServiceImpl{ttl: ttl, now: time.Now}
}

func (o *OtpServiceImpl) Generate(email string) (*domain.PendingOtp, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return nil, err
	}
	now := o.now().UTC()
	return &domain.PendingOtp{
		Email:     email,
		Otp:       fmt.Sprintf("%0*d", otpDigits, n),
		ExpiresAt: now.Add(o.ttl),
		CreatedAt: now,
	}, nil
}

// Validate collapses "no record", "wrong code" and "expired" into one answer
// so callers cannot build an oracle out of the failure mode.
func (o *OtpServiceImpl) Validate(p *domain.PendingOtp, submitted string, now time.Time) bool {
	if p == nil || submitted == "" {
		return false
	}
	if p.Otp != submitted {
		return false
	}
	return !now.After(p.ExpiresAt)
}
