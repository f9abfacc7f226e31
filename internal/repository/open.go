// Package repository opens the configured blob backend.
package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/repository/boltdb"
	"github.com/Rrens/prompt-playground/internal/repository/memory"
	"github.com/Rrens/prompt-playground/internal/repository/mongo"
	"github.com/Rrens/prompt-playground/internal/repository/postgres"
	"github.com/Rrens/prompt-playground/internal/repository/redis"
	"github.com/Rrens/prompt-playground/internal/repository/sqlstore"
)

// Open connects to the backend named by cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config) (domain.BlobStore, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.KeyPrefix != "" {
		return WithPrefix(store, cfg.Storage.KeyPrefix), nil
	}
	return store, nil
}

func open(ctx context.Context, cfg *config.Config) (domain.BlobStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverBolt, "":
		return boltdb.Open(cfg.Storage.Path)
	case config.DriverSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.Storage.Path)
	case config.DriverMySQL:
		return sqlstore.OpenMySQL(ctx, cfg.MySQL.DSN)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.Database)
	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewBlobStore(client), nil
	case config.DriverMongo:
		return mongo.Connect(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

type prefixed struct {
	domain.BlobStore
	prefix string
}

// WithPrefix namespaces every key of store under prefix
func WithPrefix(store domain.BlobStore, prefix string) domain.BlobStore {
	return &prefixed{BlobStore: store, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.BlobStore.Get(ctx, p.prefix+key)
}

func (p *prefixed) Put(ctx context.Context, key string, data []byte) error {
	return p.BlobStore.Put(ctx, p.prefix+key, data)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.BlobStore.Delete(ctx, p.prefix+key)
}
