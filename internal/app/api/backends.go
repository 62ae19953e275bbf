package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	kafkaevents "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/events/kafka"
	redisidempotency "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/idempotency/redis"
	storememory "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/memory"
	storepostgres "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/persistence/postgres"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	usermemory "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/memory"
	userpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	vendormemory "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/memory"
	vendorpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/persistence/postgres"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
	platformkafka "github.com/Apurer/go-gin-marketplace/internal/platform/kafka"
	"github.com/Apurer/go-gin-marketplace/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-marketplace/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-marketplace/internal/platform/redis"
)

// Backends holds the process-wide connections. Any of them may be nil when not configured
// or unreachable; the repositories then fall back to in-memory adapters.
type Backends struct {
	DB          *gorm.DB
	Redis       *goredis.Client
	OrderEvents *kafka.Writer

	closers []func() error
}

// SessionStore is a session store that can also drop expired sessions.
type SessionStore interface {
	userports.SessionStore
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repositories are the driven adapters chosen for the configured backends.
type Repositories struct {
	Users       userports.Repository
	Sessions    SessionStore
	Vendors     vendorports.Repository
	Products    catalogports.Repository
	Orders      storeports.Repository
	Idempotency storeports.IdempotencyStore
	Events      storeports.EventPublisher
}

// OpenBackends connects to whatever the configuration names. Unreachable backends are logged
// and skipped, matching the in-memory fallback of local development.
func OpenBackends(ctx context.Context, cfg Config, logger *slog.Logger) *Backends {
	b := &Backends{}

	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
	} else if db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN); err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
	} else if sqlDB, err := db.DB(); err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
	} else if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
	} else {
		b.DB = db
		b.closers = append(b.closers, sqlDB.Close)
		logger.Info("postgres connection established")
	}

	if cfg.RedisAddr != "" {
		rdb, err := platformredis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, idempotency keys stay in the primary store", slog.String("error", err.Error()))
		} else {
			b.Redis = rdb
			b.closers = append(b.closers, rdb.Close)
			logger.Info("redis connection established", slog.String("addr", cfg.RedisAddr))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		b.OrderEvents = platformkafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
		b.closers = append(b.closers, b.OrderEvents.Close)
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrdersTopic))
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events are dropped")
	}
	return b
}

// Repositories picks Postgres adapters when a database is connected and memory adapters otherwise.
func (b *Backends) Repositories(cfg Config) Repositories {
	var repos Repositories
	if b.DB != nil {
		repos = Repositories{
			Users:       userpostgres.NewRepository(b.DB),
			Sessions:    userpostgres.NewSessionStore(b.DB),
			Vendors:     vendorpostgres.NewRepository(b.DB),
			Products:    catalogpostgres.NewRepository(b.DB),
			Orders:      storepostgres.NewRepository(b.DB),
			Idempotency: storepostgres.NewIdempotencyStore(b.DB, cfg.IdempotencyTTL),
		}
	} else {
		repos = Repositories{
			Users:       usermemory.NewRepository(),
			Sessions:    usermemory.NewSessionStore(),
			Vendors:     vendormemory.NewRepository(),
			Products:    catalogmemory.NewRepository(),
			Orders:      storememory.NewRepository(),
			Idempotency: storememory.NewIdempotencyStore(cfg.IdempotencyTTL),
		}
	}
	if b.Redis != nil {
		repos.Idempotency = redisidempotency.NewStore(b.Redis, cfg.IdempotencyTTL)
	}
	repos.Events = storeports.NoopEventPublisher
	if b.OrderEvents != nil {
		repos.Events = kafkaevents.NewPublisher(b.OrderEvents)
	}
	return repos
}

// Close releases the connections in reverse order of opening.
func (b *Backends) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, b.closers[i]())
	}
	b.closers = nil
	return err
}
