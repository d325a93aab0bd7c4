package http

import (
	"context"
	"net/http"
	"strings"

	"reelist/internal/domain"
	"reelist/internal/service"

	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// RequireAuth validates the bearer access token and stashes the subject user
// id in the request context.
func RequireAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			userID, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// maybeUserID resolves the bearer identity when one is presented; anonymous
// and invalid tokens both yield uuid.Nil so public routes stay public.
func maybeUserID(r *http.Request, tokens service.TokenService) domain.UserID {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil
	}
	userID, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return uuid.Nil
	}
	return userID
}

func UserIDFromContext(ctx context.Context) domain.UserID {
	if v, ok := ctx.Value(ctxKeyUserID).(domain.UserID); ok {
		return v
	}
	return uuid.Nil
}
