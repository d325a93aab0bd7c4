package dto

type OtpRequest struct {
	Email string `json:"email"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Otp      string `json:"otp"`
}

type SignupResponse struct {
	UserID   string         `json:"userId"`
	Username string         `json:"username"`
	Tokens   *TokenResponse `json:"tokens,omitempty"`
}
