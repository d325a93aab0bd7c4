package service

import (
	"context"
	"time"
)

type EmailService interface {
	SendOtp(ctx context.Context, to, code string, ttl time.Duration) error
}
