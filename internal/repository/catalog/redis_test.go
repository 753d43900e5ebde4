package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
)

type fakeKV struct {
	data   map[string][]byte
	counts map[string]int64
	err    error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}, counts: map[string]int64{}}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key] += val
	return f.counts[key], nil
}

func TestRedisRepo_PublishThenLoad(t *testing.T) {
	c, err := Decode(strings.NewReader(jsonCatalog), FormatJSON)
	require.NoError(t, err)

	kv := newFakeKV()
	repo := NewRedis(kv, "")
	assert.Equal(t, DefaultRedisKey, repo.Key())

	v, err := repo.Publish(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = repo.Publish(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, c.Len(), loaded.Len())
	assert.Equal(t, "tee-1", loaded.Items()[1].ID())
	assert.Equal(t, 25.0, loaded.Items()[1].BasePrice())
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestRedisRepo_NotPublished(t *testing.T) {
	repo := NewRedis(newFakeKV(), "shop:cat")

	_, err := repo.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotPublished))
	assert.True(t, errors.Is(repo.Ping(context.Background()), ErrNotPublished))
}

func TestRedisRepo_InvalidBlob(t *testing.T) {
	kv := newFakeKV()
	kv.data["k"] = []byte(`[{"name": "", "price": -1}]`)

	_, err := NewRedis(kv, "k").Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidCatalog))
}

func TestRedisRepo_StoreError(t *testing.T) {
	kv := newFakeKV()
	kv.err = &db.Error{Op: db.OpGet, Err: errors.New("connection reset")}

	_, err := NewRedis(kv, "k").Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotPublished))
}
