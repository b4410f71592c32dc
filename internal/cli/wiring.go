package cli

import (
	"context"
	"time"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/config"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/infra/logfile"
	"solo-quiz-service/internal/infra/memory"
	pginfra "solo-quiz-service/internal/infra/postgres"
	redisinfra "solo-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps holds the wired infrastructure for a command run.
type deps struct {
	banks   app.BankRepository
	sink    app.ResultSink
	service *app.SessionService
	cleanup func()
}

// buildDeps assembles bank source, cache, registry, and result sink from
// config. Postgres and Redis are both optional; absent either, everything
// runs in-process with a file-backed result log.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, err
		}
		cleanups = append(cleanups, pool.Close)
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	if cfg.Bank.Path != "" {
		loader = memory.NewFileBankLoader(cfg.Bank.Path)
	}
	if pool != nil {
		loader = pginfra.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	var sink app.ResultSink
	if pool != nil {
		sink = pginfra.NewResultSink(pool)
	} else {
		logPath := cfg.Results.LogPath
		if logPath == "" {
			logPath = "results.log"
		}
		sink = logfile.NewSink(logPath)
	}

	var registry app.SessionRegistry
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		registry = memory.NewSessionRegistry()
	}

	sinkTimeout := config.TTLDuration(cfg.Results.SinkTimeout, 5*time.Second)
	service := app.NewSessionService(registry, banks, sink, app.WithSinkTimeout(sinkTimeout))

	return &deps{
		banks:   banks,
		sink:    sink,
		service: service,
		cleanup: cleanup,
	}, nil
}

// sampleBanks provides a minimal bank for running without any backing store.
func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		"bank-1": {
			ID:    "bank-1",
			Title: "Warm-up",
			Questions: []domain.Question{
				{
					Prompt: "What is 2 + 2?",
					Points: 5,
					Rule:   domain.GradingRule{Kind: domain.RuleExactMatch, Reference: "4"},
				},
				{
					Prompt: "Capital of France?",
					Points: 5,
					Rule:   domain.GradingRule{Kind: domain.RuleExactMatch, Reference: "Paris"},
				},
			},
		},
	}
}
