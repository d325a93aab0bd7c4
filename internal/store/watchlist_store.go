package store

import (
	"context"
	"time"

	"reelist/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistStore struct{ db *gorm.DB }

func (s *Store) Watchlist() *WatchlistStore { return &WatchlistStore{db: s.DB} }

// Upsert records a swipe verdict. Requires the composite primary key on
// (user_id, movie_id); a repeat swipe overwrites the stored verdict.
func (w *WatchlistStore) Upsert(ctx context.Context, e *domain.WatchlistEntry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return w.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"verdict", "updated_at"}),
	}).Create(e).Error
}

func (w *WatchlistStore) Delete(ctx context.Context, userID domain.UserID, movieID domain.MovieID) (int64, error) {
	tx := w.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&domain.WatchlistEntry{})
	return tx.RowsAffected, tx.Error
}

// ListMovies returns the movies a user marked with the given verdict,
// most recent swipe first.
func (w *WatchlistStore) ListMovies(ctx context.Context, userID domain.UserID, verdict domain.Verdict) ([]domain.Movie, error) {
	var out []domain.Movie
	err := w.db.WithContext(ctx).Model(&domain.Movie{}).
		Joins("JOIN watchlist_entries ON watchlist_entries.movie_id = movies.id").
		Where("watchlist_entries.user_id = ? AND watchlist_entries.verdict = ?", userID, verdict).
		Order("watchlist_entries.updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MovieIDs returns every movie the user has swiped on, regardless of verdict.
// Feeds the discovery endpoint so already-seen titles are not dealt again.
func (w *WatchlistStore) MovieIDs(ctx context.Context, userID domain.UserID) ([]domain.MovieID, error) {
	var out []domain.MovieID
	err := w.db.WithContext(ctx).Model(&domain.WatchlistEntry{}).
		Where("user_id = ?", userID).
		Pluck("movie_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
