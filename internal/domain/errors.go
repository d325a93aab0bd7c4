package domain

import "errors"

var (
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrInvalidOtp            = errors.New("invalid or expired code")
	ErrNotificationFailed    = errors.New("notification dispatch failed")
	ErrAccountCreationFailed = errors.New("account creation failed")
	ErrLogoutFailed          = errors.New("logout failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrMovieNotFound         = errors.New("movie not found")
)
