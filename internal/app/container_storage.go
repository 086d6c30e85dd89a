package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/dig"

	"agrimarket-delivery/internal/cache"
	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/ports/deliverytx"
	"agrimarket-delivery/internal/repository"
	"agrimarket-delivery/internal/repository/mongostore"
	"agrimarket-delivery/internal/service/delivery"
)

// store is what both storage backends offer the services.
type store interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
	GetDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error)
	GetDeliveryByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

var (
	_ store = (*repository.Store)(nil)
	_ store = (*mongostore.Store)(nil)
)

const (
	dbConnectRetries = 10
	dbConnectDelay   = time.Second
)

func registerStorage(
	container *dig.Container,
	dbConnect dbConnectFunc,
	mongoConnect mongoConnectFunc,
	migrate func(dsn string) error,
) error {
	providerStore := func(ctx context.Context, cfg *config.Config, logger logx.Logger, lc *lifecycle) (store, error) {
		switch cfg.Storage {
		case config.StorageMongo:
			return openMongo(ctx, cfg.Mongo, logger, lc, mongoConnect)
		default:
			return openPostgres(ctx, cfg.DB, logger, lc, dbConnect, migrate)
		}
	}
	return provideAll(container, providerStore, provideCache)
}

func openPostgres(
	ctx context.Context,
	db config.DB,
	logger logx.Logger,
	lc *lifecycle,
	dbConnect dbConnectFunc,
	migrate func(dsn string) error,
) (store, error) {
	dsn := db.DSN()
	pool, err := dbConnect(ctx, logger, dsn, dbConnectRetries, dbConnectDelay)
	if err != nil {
		return nil, err
	}
	lc.add("postgres", func() error {
		pool.Close()
		return nil
	})
	if err := migrate(dsn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("storage ready", logx.String("backend", config.StoragePostgres))
	return repository.NewStore(pool), nil
}

func openMongo(
	ctx context.Context,
	cfg config.Mongo,
	logger logx.Logger,
	lc *lifecycle,
	mongoConnect mongoConnectFunc,
) (store, error) {
	client, err := mongoConnect(ctx, cfg.URI)
	if err != nil {
		return nil, err
	}
	lc.add("mongo", func() error {
		return client.Disconnect(context.Background())
	})

	s := mongostore.NewStore(client, cfg.Database)
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	logger.Info("storage ready",
		logx.String("backend", config.StorageMongo),
		logx.String("database", cfg.Database),
	)
	return s, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongostore.Connect(ctx, uri)
}

func migrateSchema(dsn string) error {
	return repository.Migrate(dsn)
}

// provideCache returns nil when Redis is not configured.
func provideCache(ctx context.Context, cfg *config.Config, logger logx.Logger, lc *lifecycle) (delivery.Cache, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("delivery cache disabled")
		return nil, nil
	}
	rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	lc.add("redis", rdb.Close)
	return cache.NewDeliveryCache(rdb, cfg.Redis.TTL), nil
}

