package store

import (
	"context"

	"reelist/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovieStore struct{ db *gorm.DB }

func (s *Store) Movies() *MovieStore { return &MovieStore{db: s.DB} }

func (m *MovieStore) Create(ctx context.Context, mv *domain.Movie) error {
	if mv.ID == uuid.Nil {
		mv.ID = uuid.New()
	}
	return m.db.WithContext(ctx).Create(mv).Error
}

func (m *MovieStore) GetByID(ctx context.Context, id domain.MovieID) (*domain.Movie, error) {
	var mv domain.Movie
	if err := m.db.WithContext(ctx).First(&mv, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &mv, nil
}

// List returns a page of movies, optionally filtered by genre and with the
// excluded ids left out, newest releases first.
func (m *MovieStore) List(ctx context.Context, genre string, exclude []domain.MovieID, offset, limit int) ([]domain.Movie, error) {
	q := m.db.WithContext(ctx).Model(&domain.Movie{})
	if genre != "" {
		q = q.Where("genre = ?", genre)
	}
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var out []domain.Movie
	if err := q.Order("release_year DESC, title ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MovieStore) Genres(ctx context.Context) ([]string, error) {
	var out []string
	err := m.db.WithContext(ctx).Model(&domain.Movie{}).
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
