package dto

import "reelist/internal/domain"

type MovieListResponse struct {
	Movies   []domain.Movie `json:"movies"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type GenreListResponse struct {
	Genres []string `json:"genres"`
}
