package service

import (
	"time"

	"reelist/internal/domain"
)

type OtpService interface {
	// Generate produces a fresh code for the email with an absolute expiry.
	Generate(email string) (*domain.PendingOtp, error)

	// Validate reports whether the submitted code redeems the stored record
	// at the given instant. A nil record, a wrong code and an expired code
	// are all just "false" — callers must not distinguish them.
	Validate(p *domain.PendingOtp, submitted string, now time.Time) bool
}
