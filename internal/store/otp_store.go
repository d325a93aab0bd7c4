package store

import (
	"context"
	"time"

	"reelist/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OtpStore struct{ db *gorm.DB }

func (s *Store) Otps() *OtpStore { return &OtpStore{db: s.DB} }

// Upsert writes the pending OTP for an email, overwriting any earlier one.
// Requires the primary key on otps.email; last request wins.
func (o *OtpStore) Upsert(ctx context.Context, p *domain.PendingOtp) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return o.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "expires_at", "created_at"}),
	}).Create(p).Error
}

func (o *OtpStore) GetByEmail(ctx context.Context, email string) (*domain.PendingOtp, error) {
	var p domain.PendingOtp
	if err := o.db.WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (o *OtpStore) Delete(ctx context.Context, email string) error {
	return o.db.WithContext(ctx).Where("email = ?", email).Delete(&domain.PendingOtp{}).Error
}
