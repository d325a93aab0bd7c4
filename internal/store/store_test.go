package store_test

import (
	"context"
	"testing"
	"time"

	"reelist/internal/domain"
	"reelist/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.PendingOtp{},
		&domain.Session{},
		&domain.Movie{},
		&domain.WatchlistEntry{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return store.New(db)
}

func TestOtpUpsertLastRequestWins(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	first := &domain.PendingOtp{
		Email:     "upsert@x.com",
		Otp:       "111111",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	if err := st.Otps().Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &domain.PendingOtp{
		Email:     "upsert@x.com",
		Otp:       "222222",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	if err := st.Otps().Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stored, err := st.Otps().GetByEmail(ctx, "upsert@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Otp != "222222" {
		t.Fatalf("expected latest code to win, got %q", stored.Otp)
	}

	var count int64
	if err := st.DB.Model(&domain.PendingOtp{}).Where("email = ?", "upsert@x.com").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single pending otp per email, got %d", count)
	}
}

func TestOtpDeleteAndMissingLookup(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	p := &domain.PendingOtp{
		Email:     "gone@x.com",
		Otp:       "123456",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	if err := st.Otps().Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.Otps().Delete(ctx, "gone@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Otps().GetByEmail(ctx, "gone@x.com"); err != store.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUserUniqueConstraints(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u := &domain.User{Email: "unique@x.com", Username: "unique", PasswordHash: []byte("h")}
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	dupEmail := &domain.User{Email: "unique@x.com", Username: "other", PasswordHash: []byte("h")}
	if err := st.Users().Create(ctx, dupEmail); err == nil {
		t.Fatalf("expected unique violation on email")
	}

	dupUsername := &domain.User{Email: "other@x.com", Username: "unique", PasswordHash: []byte("h")}
	if err := st.Users().Create(ctx, dupUsername); err == nil {
		t.Fatalf("expected unique violation on username")
	}

	got, err := st.Users().GetByEmail(ctx, "unique@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected %s, got %s", u.ID, got.ID)
	}
}

func TestSignupTransactionRollsBackOnInsertFailure(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	winner := &domain.User{Email: "race@x.com", Username: "winner", PasswordHash: []byte("h")}
	if err := st.Users().Create(ctx, winner); err != nil {
		t.Fatalf("seed winner: %v", err)
	}
	pending := &domain.PendingOtp{
		Email:     "race@x.com",
		Otp:       "123456",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	if err := st.Otps().Upsert(ctx, pending); err != nil {
		t.Fatalf("seed otp: %v", err)
	}

	err := st.WithTx(ctx, func(tx *store.Store) error {
		loser := &domain.User{Email: "race@x.com", Username: "loser", PasswordHash: []byte("h")}
		if err := tx.Users().Create(ctx, loser); err != nil {
			return err
		}
		return tx.Otps().Delete(ctx, "race@x.com")
	})
	if err == nil {
		t.Fatalf("expected transaction to fail on the unique constraint")
	}

	// The otp must survive the rolled-back transaction.
	if _, err := st.Otps().GetByEmail(ctx, "race@x.com"); err != nil {
		t.Fatalf("otp should still exist after rollback: %v", err)
	}
}

func TestWatchlistUpsertOverwritesVerdict(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	userID := uuid.New()
	movie := &domain.Movie{Title: "Heat", Genre: "thriller", ReleaseYear: 1995}
	if err := st.Movies().Create(ctx, movie); err != nil {
		t.Fatalf("create movie: %v", err)
	}

	if err := st.Watchlist().Upsert(ctx, &domain.WatchlistEntry{UserID: userID, MovieID: movie.ID, Verdict: domain.VerdictRejected}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := st.Watchlist().Upsert(ctx, &domain.WatchlistEntry{UserID: userID, MovieID: movie.ID, Verdict: domain.VerdictLiked}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	liked, err := st.Watchlist().ListMovies(ctx, userID, domain.VerdictLiked)
	if err != nil {
		t.Fatalf("list liked: %v", err)
	}
	if len(liked) != 1 || liked[0].ID != movie.ID {
		t.Fatalf("expected the movie in the liked list, got %+v", liked)
	}

	rejected, err := st.Watchlist().ListMovies(ctx, userID, domain.VerdictRejected)
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("verdict should have been overwritten, got %+v", rejected)
	}

	affected, err := st.Watchlist().Delete(ctx, userID, movie.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 deleted row, got %d", affected)
	}
	affected, err = st.Watchlist().Delete(ctx, userID, movie.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 deleted rows, got %d", affected)
	}
}

func TestMovieListFiltersByGenre(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	seed := []domain.Movie{
		{Title: "Alien", Genre: "scifi-list", ReleaseYear: 1979},
		{Title: "Aliens", Genre: "scifi-list", ReleaseYear: 1986},
		{Title: "Casablanca", Genre: "drama-list", ReleaseYear: 1942},
	}
	for i := range seed {
		if err := st.Movies().Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed movie: %v", err)
		}
	}

	got, err := st.Movies().List(ctx, "scifi-list", nil, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scifi movies, got %d", len(got))
	}
	if got[0].Title != "Aliens" {
		t.Fatalf("expected newest release first, got %q", got[0].Title)
	}

	got, err = st.Movies().List(ctx, "scifi-list", []domain.MovieID{seed[1].ID}, 0, 10)
	if err != nil {
		t.Fatalf("list with exclusions: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Alien" {
		t.Fatalf("expected only Alien after excluding Aliens, got %+v", got)
	}
}

func TestSessionRotateAndRevoke(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	sess := &domain.Session{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if err := st.Sessions().Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	oldRID := sess.RefreshID

	newRID := uuid.New()
	newExp := time.Now().UTC().Add(2 * time.Hour)
	if err := st.Sessions().Rotate(ctx, sess.ID, newRID, newExp, "10.0.0.1", "test-agent"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := st.Sessions().GetByRefreshID(ctx, oldRID); err != store.ErrRecordNotFound {
		t.Fatalf("old refresh id should be gone, got %v", err)
	}
	rotated, err := st.Sessions().GetByRefreshID(ctx, newRID)
	if err != nil {
		t.Fatalf("get rotated: %v", err)
	}
	if rotated.IP != "10.0.0.1" {
		t.Fatalf("expected rotated ip, got %q", rotated.IP)
	}

	if err := st.Sessions().Revoke(ctx, sess.ID, time.Now().UTC()); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := st.Sessions().GetByRefreshID(ctx, newRID)
	if err != nil {
		t.Fatalf("get revoked: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatalf("expected revoked_at to be set")
	}
}
