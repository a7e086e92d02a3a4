package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/app"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/notifier"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

// infrastructure holds the connections opened for one server run.
type infrastructure struct {
	Repos       app.Repositories
	Cache       usecase.AccountCache
	Idempotency *redisRepo.IdempotencyStore
	Pingers     map[string]handler.Pinger

	pool        *pgxpool.Pool
	redisClient *goredis.Client
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func openInfrastructure(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*infrastructure, error) {
	infra := &infrastructure{Pingers: make(map[string]handler.Pinger)}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		infra.Repos = app.MemoryRepositories(store)
		infra.Pingers["store"] = store
		log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		if cfg.DatabaseAutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		infra.pool = pool
		infra.Repos = app.PostgresRepositories(pool)
		infra.Pingers["postgres"] = pool
	}

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.ClientConfig{URL: cfg.RedisURL})
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")

		infra.redisClient = client
		infra.Cache = redisRepo.NewAccountCache(client)
		infra.Idempotency = redisRepo.NewIdempotencyStore(client)
		infra.Pingers["redis"] = redisPinger{client: client}
	}

	return infra, nil
}

// Close releases every open connection.
func (i *infrastructure) Close() {
	if i.redisClient != nil {
		i.redisClient.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

// buildPublishers returns the configured notification channels. The log
// channel is always present.
func buildPublishers(cfg *config.Config, infra *infrastructure, log zerolog.Logger) ([]notifier.Publisher, func(), error) {
	publishers := []notifier.Publisher{notifier.NewLogPublisher(log)}
	closers := []func(){}

	if cfg.NotifyStream != "" && infra.redisClient != nil {
		publishers = append(publishers, notifier.NewStreamPublisher(infra.redisClient, cfg.NotifyStream, cfg.NotifyStreamMaxLen))
	}

	if len(cfg.NotifyKafkaBrokers) > 0 {
		kafka := notifier.NewKafkaPublisher(cfg.NotifyKafkaBrokers, cfg.NotifyKafkaTopic)
		publishers = append(publishers, kafka)
		closers = append(closers, func() {
			if err := kafka.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close kafka writer")
			}
		})
	}

	if cfg.SMTPHost != "" {
		email, err := notifier.NewEmailPublisher(notifier.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		}, infra.Repos.Customers)
		if err != nil {
			return nil, nil, err
		}
		publishers = append(publishers, email)
	}

	names := make([]string, 0, len(publishers))
	for _, p := range publishers {
		names = append(names, p.Name())
	}
	log.Info().Strs("channels", names).Msg("notification channels configured")

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	return publishers, closeAll, nil
}
