package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/config"
	"lingo-quiz-service/internal/infra/amqp"
	"lingo-quiz-service/internal/infra/memory"
	"lingo-quiz-service/internal/infra/postgres"
	redisinfra "lingo-quiz-service/internal/infra/redis"
	"lingo-quiz-service/internal/infra/translate"
	"lingo-quiz-service/internal/metrics"
	"lingo-quiz-service/internal/progression"
	transport "lingo-quiz-service/internal/transport/http"
	"lingo-quiz-service/internal/vocab"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	levels := progression.DefaultLevelTable()

	var (
		store  app.Store = memory.NewStore(levels)
		corpus           = vocab.DefaultCorpus()
	)
	if cfg.Postgres.URL != "" {
		db := openDB(cfg.Postgres.URL)
		defer db.Close()
		if err := applyMigrations(ctx, db, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		store = postgres.NewStore(db, levels)

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		corpus, err = postgres.NewWordLoader(pool).LoadCorpus(ctx)
		if err != nil {
			return err
		}
		log.Info("using postgres store")
	} else {
		log.Warn("postgres url is empty, progress is kept in memory")
	}

	var translator app.Translator = translate.Dictionary{}
	if cfg.Translator.URL != "" {
		translator = translate.NewClient(translate.ClientConfig{
			BaseURL: cfg.Translator.URL,
			APIKey:  cfg.Translator.APIKey,
			Timeout: config.TTLDuration(cfg.Translator.Timeout, 10*time.Second),
		})
	} else {
		log.Warn("translator url is empty, quizzes use source-language options only")
	}
	cacheTTL := config.TTLDuration(cfg.Translator.CacheTTL, translate.CacheTTL)

	rateLimit := config.IntOr(cfg.Quiz.RateLimit, 5)
	rateWindow := config.TTLDuration(cfg.Quiz.RateWindow, time.Minute)

	var (
		sessions app.SessionRepository
		limiter  app.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		grace := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		sessions = redisinfra.NewSessionStore(redisClient, grace)
		limiter = redisinfra.NewRateLimiter(redisClient, rateLimit, rateWindow)
		translator = redisinfra.NewTranslationCache(redisClient, translator, cacheTTL)
	} else {
		sessions = memory.NewSessionStore()
		limiter = memory.NewRateLimiter(rateLimit, rateWindow)
		translator = memory.NewTranslationCache(translator, cacheTTL)
	}

	publisher, err := amqp.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	manager := app.NewSessionManager(app.Config{
		DefaultTimeout: config.TTLDuration(cfg.Quiz.Timeout, 30*time.Second),
		MaxTimeout:     config.TTLDuration(cfg.Quiz.MaxTimeout, 5*time.Minute),
		OptionCount:    cfg.Quiz.Options,
		HistoryLimit:   cfg.Quiz.HistoryLimit,
	}, app.Deps{
		Sessions:   sessions,
		Store:      store,
		Bank:       vocab.NewBank(corpus),
		Translator: translator,
		Levels:     levels,
		Events:     publisher,
		Observer:   metrics.NewObserver(prometheus.DefaultRegisterer),
		Logger:     log,
	})
	defer manager.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", transport.NewWSHandler(manager, limiter, log).ServeWS)
	transport.NewAPIHandler(manager, log).Register(mux)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	manager.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
