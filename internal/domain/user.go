package domain

import "time"

type User struct {
	ID           UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Email        string    `gorm:"type:citext;uniqueIndex:ux_users_email" db:"email" json:"email"`
	Username     string    `gorm:"type:citext;uniqueIndex:ux_users_username" db:"username" json:"username"`
	PasswordHash []byte    `gorm:"type:bytea;not null" db:"password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PendingOtp is the sole authority for whether an (email, code) pair is
// currently redeemable. At most one row is live per email; a new request
// overwrites the previous one.
type PendingOtp struct {
	Email     string    `gorm:"type:citext;primaryKey" db:"email"`
	Otp       string    `gorm:"type:text;not null" db:"otp"`
	ExpiresAt time.Time `gorm:"not null" db:"expires_at"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (PendingOtp) TableName() string { return "otps" }
