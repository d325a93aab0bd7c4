package domain

import "time"

type Movie struct {
	ID          MovieID   `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Title       string    `gorm:"type:text;not null" db:"title" json:"title"`
	Overview    string    `gorm:"type:text" db:"overview" json:"overview"`
	PosterURL   string    `gorm:"type:text" db:"poster_url" json:"posterUrl"`
	Genre       string    `gorm:"type:text;index:ix_movies_genre" db:"genre" json:"genre"`
	ReleaseYear int       `db:"release_year" json:"releaseYear"`
	Rating      float64   `db:"rating" json:"rating"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at" json:"-"`
}

func (Movie) TableName() string { return "movies" }
