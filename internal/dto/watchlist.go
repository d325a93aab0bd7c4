package dto

import "reelist/internal/domain"

type SwipeRequest struct {
	MovieID string `json:"movieId"`
}

type WatchlistResponse struct {
	Movies []domain.Movie `json:"movies"`
}
