package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reelist/internal/domain"
	"reelist/internal/dto"
	"reelist/internal/service"
	"reelist/internal/service/impl"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	CORSOrigins []string
}

func NewRouter(cfg Config, accounts service.AccountService, tokens service.TokenService, movies service.MovieService, watchlist service.WatchlistService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// rate limit: 100 req / minute by IP
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/otp/request", func(w http.ResponseWriter, r *http.Request) {
			var req dto.OtpRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			if err := accounts.RequestOtp(r.Context(), req.Email); err != nil {
				writeAccountError(w, err)
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"message": "verification code sent"})
		})

		r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
			var req dto.SignupRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			res, err := accounts.VerifyAndCreate(r.Context(), req, r.RemoteAddr, r.UserAgent())
			if err != nil {
				writeAccountError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, res)
		})

		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var req dto.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			res, err := accounts.Login(r.Context(), req, r.RemoteAddr, r.UserAgent())
			if err != nil {
				writeLoginError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			var req dto.RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			res, err := tokens.Refresh(r.Context(), req.RefreshToken, r.RemoteAddr, r.UserAgent())
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					http.Error(w, err.Error(), http.StatusUnauthorized)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			var req dto.LogoutRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			if err := accounts.Logout(r.Context(), req.RefreshToken); err != nil {
				// Non-fatal for the client: it clears local state either way.
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Route("/v1/movies", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			page := atoiOr(r.URL.Query().Get("page"), 1)
			pageSize := atoiOr(r.URL.Query().Get("pageSize"), 0)
			res, err := movies.List(r.Context(), maybeUserID(r, tokens), r.URL.Query().Get("genre"), page, pageSize)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/genres", func(w http.ResponseWriter, r *http.Request) {
			res, err := movies.Genres(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid movie id", http.StatusBadRequest)
				return
			}
			mv, err := movies.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrMovieNotFound) {
					http.Error(w, err.Error(), http.StatusNotFound)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, mv)
		})
	})

	r.Route("/v1/watchlist", func(r chi.Router) {
		r.Use(RequireAuth(tokens))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			res, err := watchlist.Liked(r.Context(), UserIDFromContext(r.Context()))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/like", swipeHandler(watchlist.Like))
		r.Post("/reject", swipeHandler(watchlist.Reject))

		r.Delete("/{movieId}", func(w http.ResponseWriter, r *http.Request) {
			movieID, err := uuid.Parse(chi.URLParam(r, "movieId"))
			if err != nil {
				http.Error(w, "invalid movie id", http.StatusBadRequest)
				return
			}
			if err := watchlist.Remove(r.Context(), UserIDFromContext(r.Context()), movieID); err != nil {
				writeWatchlistError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

func swipeHandler(record func(ctx context.Context, userID domain.UserID, movieID domain.MovieID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SwipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		movieID, err := uuid.Parse(strings.TrimSpace(req.MovieID))
		if err != nil {
			http.Error(w, "invalid movie id", http.StatusBadRequest)
			return
		}
		if err := record(r.Context(), UserIDFromContext(r.Context()), movieID); err != nil {
			writeWatchlistError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeAccountError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrDuplicateAccount):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOtp):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccountCreationFailed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotificationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, impl.ErrEmptyCredential),
		errors.Is(err, impl.ErrInvalidEmail),
		errors.Is(err, impl.ErrPasswordLength):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

// writeLoginError keeps failed logins indistinguishable and never echoes
// internal errors back to the client.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, impl.ErrEmptyCredential):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeWatchlistError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrMovieNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func originsIfSet(in []string) []string {
	out := []string{}
	for _, o := range in {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	// Empty slice tells the CORS lib "disallow all" unless you want "*"
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
