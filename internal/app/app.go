package app

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/config"
	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/auth"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/notify"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/repository/memory"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/repository/postgres"
	"github.com/spreadpools/pickem-backend/internal/interfaces/httpapi"
	"github.com/spreadpools/pickem-backend/internal/platform/cache"
	"github.com/spreadpools/pickem-backend/internal/platform/logging"
	"github.com/spreadpools/pickem-backend/internal/platform/resilience"
	"github.com/spreadpools/pickem-backend/internal/usecase"
)

type storage struct {
	users           user.Repository
	games           game.Repository
	picks           pick.Repository
	tiebreakers     tiebreaker.Repository
	tiebreakerPicks tiebreaker.PickRepository
	boards          leaderboard.Repository
	tx              usecase.TxRunner
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, err := buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("build token manager: %w", err)
	}
	passwords := auth.NewPasswords()

	webhook := notify.NewWebhookNotifier(notify.WebhookConfig{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
		},
	}, logger)
	notifier := notify.NewNotifier(webhook)

	var standingsCache *cache.Store
	if cfg.CacheEnabled {
		standingsCache = cache.NewStore(cfg.CacheTTL)
	}

	userSvc := usecase.NewUserService(st.users, st.picks, st.games, st.boards, st.tiebreakers, st.tiebreakerPicks, st.tx, tokens, passwords, notifier, logger)
	gameSvc := usecase.NewGameService(st.games)
	pickSvc := usecase.NewPickService(st.games, st.picks, st.users, st.boards, st.tx)
	gradingSvc := usecase.NewGradingService(st.games, st.picks, st.users, st.tiebreakerPicks, st.boards, st.tx, notifier, logger)
	tiebreakerSvc := usecase.NewTiebreakerService(st.tiebreakers, st.tiebreakerPicks, st.users)
	leaderboardSvc := usecase.NewLeaderboardService(st.users, st.games, st.picks, st.tiebreakers, st.tiebreakerPicks, standingsCache)

	verifier := auth.NewVerifier(tokens, userSvc)

	handler := httpapi.NewHandler(userSvc, gameSvc, pickSvc, gradingSvc, tiebreakerSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildStorage(cfg config.Config) (storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		users := memory.NewUserRepository(memory.SeedUsers())
		games := memory.NewGameRepository(memory.SeedGames())
		picks := memory.NewPickRepository(games)
		tiebreakers := memory.NewTiebreakerRepository(memory.SeedTiebreakers())
		tiebreakerPicks := memory.NewTiebreakerPickRepository(tiebreakers)
		boards := memory.NewLeaderboardRepository(users, picks, tiebreakerPicks)

		return storage{
			users:           users,
			games:           games,
			picks:           picks,
			tiebreakers:     tiebreakers,
			tiebreakerPicks: tiebreakerPicks,
			boards:          boards,
			tx:              memory.NewTxManager(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return storage{}, err
	}

	if cfg.AppEnv != config.EnvProd {
		if err := postgres.BootstrapSeed(context.Background(), db); err != nil {
			return storage{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	return storage{
		users:           postgres.NewUserRepository(db),
		games:           postgres.NewGameRepository(db),
		picks:           postgres.NewPickRepository(db),
		tiebreakers:     postgres.NewTiebreakerRepository(db),
		tiebreakerPicks: postgres.NewTiebreakerPickRepository(db),
		boards:          postgres.NewLeaderboardRepository(db),
		tx:              postgres.NewTxManager(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
