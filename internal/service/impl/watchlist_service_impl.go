package impl

import (
	"context"
	"errors"
	"log/slog"

	"reelist/internal/domain"
	"reelist/internal/dto"
	"reelist/internal/observability/metrics"
	"reelist/internal/store"
)

type WatchlistServiceImpl struct {
	store *store.Store
}

func NewWatchlistServiceImpl(st *store.Store) *WatchlistServiceImpl {
	return &WatchlistServiceImpl{store: st}
}

func (w *WatchlistServiceImpl) Like(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error {
	return w.record(ctx, userID, movieID, domain.VerdictLiked)
}

func (w *WatchlistServiceImpl) Reject(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error {
	return w.record(ctx, userID, movieID, domain.VerdictRejected)
}

func (w *WatchlistServiceImpl) record(ctx context.Context, userID domain.UserID, movieID domain.MovieID, verdict domain.Verdict) error {
	if _, err := w.store.Movies().GetByID(ctx, movieID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrMovieNotFound
		}
		slog.Error("movie lookup failed", "error", err)
		return errors.New("store unavailable")
	}
	entry := &domain.WatchlistEntry{
		UserID:  userID,
		MovieID: movieID,
		Verdict: verdict,
	}
	if err := w.store.Watchlist().Upsert(ctx, entry); err != nil {
		slog.Error("swipe upsert failed", "error", err)
		return errors.New("store unavailable")
	}
	metrics.SwipesTotal.WithLabelValues(string(verdict)).Inc()
	return nil
}

// Remove deletes a recorded swipe, whatever its verdict. This is the server
// half of the client's "undo last swipe".
func (w *WatchlistServiceImpl) Remove(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error {
	affected, err := w.store.Watchlist().Delete(ctx, userID, movieID)
	if err != nil {
		slog.Error("swipe delete failed", "error", err)
		return errors.New("store unavailable")
	}
	if affected == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (w *WatchlistServiceImpl) Liked(ctx context.Context, userID domain.UserID) (*dto.WatchlistResponse, error) {
	movies, err := w.store.Watchlist().ListMovies(ctx, userID, domain.VerdictLiked)
	if err != nil {
		slog.Error("watchlist read failed", "error", err)
		return nil, errors.New("store unavailable")
	}
	return &dto.WatchlistResponse{Movies: movies}, nil
}
