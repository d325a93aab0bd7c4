package domain

import "time"

type Verdict string

const (
	VerdictLiked    Verdict = "liked"
	VerdictRejected Verdict = "rejected"
)

// WatchlistEntry records the outcome of a swipe. One row per (user, movie);
// swiping the same movie again overwrites the previous verdict.
type WatchlistEntry struct {
	UserID    UserID    `gorm:"type:uuid;primaryKey" db:"user_id" json:"userId"`
	MovieID   MovieID   `gorm:"type:uuid;primaryKey" db:"movie_id" json:"movieId"`
	Verdict   Verdict   `gorm:"type:text;not null" db:"verdict" json:"verdict"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (WatchlistEntry) TableName() string { return "watchlist_entries" }
