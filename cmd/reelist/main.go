package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"reelist/internal/config"
	"reelist/internal/domain"
	"reelist/internal/observability/logging"
	"reelist/internal/observability/metrics"
	obsmw "reelist/internal/observability/middleware"
	impl "reelist/internal/service/impl"
	"reelist/internal/store"
	httpx "reelist/internal/transport/http"
	"reelist/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "reelist",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("reelist")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.PendingOtp{},
		&domain.Session{},
		&domain.Movie{},
		&domain.WatchlistEntry{},
	); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	pw := impl.NewPasswordServiceBcrypt()
	otp := impl.NewOtpService(cfg.OtpTTL)
	mail := impl.NewEmailServiceSMTP(impl.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPass,
	})
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	}, st)

	accounts := impl.NewAccountServiceImpl(st, otp, mail, pw, tokens)
	movies := impl.NewMovieServiceImpl(st)
	watchlist := impl.NewWatchlistServiceImpl(st)

	mux := httpx.NewRouter(httpx.Config{
		CORSOrigins: strings.Split(cfg.CORSOrigins, ","),
	}, accounts, tokens, movies, watchlist)

	handler := obsmw.WithRequestAndTrace(obsmw.WithMetrics(mux))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("reelist listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
