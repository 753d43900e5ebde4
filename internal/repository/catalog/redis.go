package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/db"
	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
)

// DefaultRedisKey is the key a catalog is published under when none is configured.
const DefaultRedisKey = "shopsearch:catalog"

// ErrNotPublished is returned when no catalog exists at the configured key.
var ErrNotPublished = errors.New("catalog not published")

// RedisRepo reads a JSON-encoded catalog blob from a key-value store.
// Every Publish bumps a companion "<key>:version" counter.
type RedisRepo struct {
	store db.KVStore
	key   string
}

// NewRedis creates a store-backed catalog repository. An empty key uses DefaultRedisKey.
func NewRedis(store db.KVStore, key string) *RedisRepo {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepo{store: store, key: key}
}

// Key returns the catalog key.
func (r *RedisRepo) Key() string { return r.key }

func (r *RedisRepo) versionKey() string { return r.key + ":version" }

// Ping checks that the catalog key is present.
func (r *RedisRepo) Ping(ctx context.Context) error {
	if _, err := r.store.Get(ctx, r.key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", r.key, ErrNotPublished)
		}
		return fmt.Errorf("ping catalog %s: %w", r.key, err)
	}
	return nil
}

// Load fetches and validates the published catalog.
func (r *RedisRepo) Load(ctx context.Context) (domcat.Catalog, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Catalog{}, fmt.Errorf("%s: %w", r.key, ErrNotPublished)
		}
		return domcat.Catalog{}, fmt.Errorf("get catalog %s: %w", r.key, err)
	}
	return Decode(bytes.NewReader(data), FormatJSON)
}

// Publish stores c under the catalog key and returns the new publish version.
func (r *RedisRepo) Publish(ctx context.Context, c domcat.Catalog) (int64, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, FormatJSON); err != nil {
		return 0, err
	}
	if err := r.store.Set(ctx, r.key, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("set catalog %s: %w", r.key, err)
	}
	v, err := r.store.IncrBy(ctx, r.versionKey(), 1)
	if err != nil {
		return 0, fmt.Errorf("bump catalog version: %w", err)
	}
	return v, nil
}
