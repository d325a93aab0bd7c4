package service

import (
	"context"

	"reelist/internal/domain"
	"reelist/internal/dto"
)

type MovieService interface {
	// List pages the catalog. A non-nil userID personalizes discovery:
	// titles the user already swiped on are not dealt again.
	List(ctx context.Context, userID domain.UserID, genre string, page, pageSize int) (*dto.MovieListResponse, error)
	Genres(ctx context.Context) (*dto.GenreListResponse, error)
	Get(ctx context.Context, id domain.MovieID) (*domain.Movie, error)
}

type WatchlistService interface {
	Like(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error
	Reject(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error
	// Remove undoes a recorded swipe; the entry disappears regardless of verdict.
	Remove(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error
	Liked(ctx context.Context, userID domain.UserID) (*dto.WatchlistResponse, error)
}
