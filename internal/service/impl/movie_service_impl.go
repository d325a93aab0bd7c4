package impl

import (
	"context"
	"errors"
	"log/slog"

	"reelist/internal/domain"
	"reelist/internal/dto"
	"reelist/internal/store"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type MovieServiceImpl struct {
	store *store.Store
}

func NewMovieServiceImpl(st *store.Store) *MovieServiceImpl {
	return &MovieServiceImpl{store: st}
}

func (m *MovieServiceImpl) List(ctx context.Context, userID domain.UserID, genre string, page, pageSize int) (*dto.MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Signed-in discovery never re-deals a title the user already swiped on.
	var exclude []domain.MovieID
	if userID != uuid.Nil {
		seen, err := m.store.Watchlist().MovieIDs(ctx, userID)
		if err != nil {
			slog.Error("swiped-movie lookup failed", "error", err)
			return nil, errors.New("store unavailable")
		}
		exclude = seen
	}

	movies, err := m.store.Movies().List(ctx, genre, exclude, (page-1)*pageSize, pageSize)
	if err != nil {
		slog.Error("movie list failed", "error", err)
		return nil, errors.New("store unavailable")
	}
	return &dto.MovieListResponse{Movies: movies, Page: page, PageSize: pageSize}, nil
}

func (m *MovieServiceImpl) Genres(ctx context.Context) (*dto.GenreListResponse, error) {
	genres, err := m.store.Movies().Genres(ctx)
	if err != nil {
		slog.Error("genre list failed", "error", err)
		return nil, errors.New("store unavailable")
	}
	return &dto.GenreListResponse{Genres: genres}, nil
}

func (m *MovieServiceImpl) Get(ctx context.Context, id domain.MovieID) (*domain.Movie, error) {
	mv, err := m.store.Movies().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrMovieNotFound
		}
		slog.Error("movie fetch failed", "error", err)
		return nil, errors.New("store unavailable")
	}
	return mv, nil
}
