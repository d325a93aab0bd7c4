package service

import (
	"context"

	"reelist/internal/domain"
	"reelist/internal/dto"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User, ip, ua string) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string, ip, ua string) (*dto.TokenResponse, error)
	// RevokeByRefreshToken revokes the session the refresh token is bound to.
	RevokeByRefreshToken(ctx context.Context, refreshToken string) error
	// VerifyAccess validates an access token and returns the subject user id.
	VerifyAccess(tokenStr string) (domain.UserID, error)
}
