package service

import (
	"context"

	"reelist/internal/dto"
)

type AccountService interface {
	// RequestOtp starts a signup: checks email uniqueness, persists a pending
	// OTP (last request wins) and dispatches it out-of-band.
	RequestOtp(ctx context.Context, email string) error

	// VerifyAndCreate redeems the pending OTP and atomically creates the
	// account, consuming the OTP.
	VerifyAndCreate(ctx context.Context, r dto.SignupRequest, ip, ua string) (*dto.SignupResponse, error)

	Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
