package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	dbRedis "github.com/kailas-cloud/shopsearch/internal/db/redis"
	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	catalogrepo "github.com/kailas-cloud/shopsearch/internal/repository/catalog"
)

// catalogSource is what the server needs from a catalog backend.
type catalogSource interface {
	Load(ctx context.Context) (domcat.Catalog, error)
	Ping(ctx context.Context) error
}

// openCatalogSource builds the configured catalog backend. The returned func
// releases any connection it holds.
func openCatalogSource(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (catalogSource, func(), error) {
	switch cfg.Source {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to catalog store",
			zap.Strings("addrs", cfg.Redis.Addrs),
			zap.String("key", cfg.Redis.Key),
		)
		return catalogrepo.NewRedis(store, cfg.Redis.Key), store.Close, nil
	default:
		repo, err := catalogrepo.New(cfg.Path, catalogrepo.Format(cfg.Format))
		if err != nil {
			return nil, nil, fmt.Errorf("create file repository: %w", err)
		}
		logger.Info("Using catalog file", zap.String("path", repo.Path()))
		return repo, func() {}, nil
	}
}
