package kv

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "absent")
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, s.Set(ctx, "a", []byte("2")))
	v, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.Set(ctx, "once", []byte("x")))
	v, err = Take(ctx, s, "once")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), v)
	_, err = Take(ctx, s, "once")
	assert.True(t, IsNotFound(err))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(context.Background(), "k", buf))
	buf[0] = 'x'
	v, _ := m.Get(context.Background(), "k")
	assert.Equal(t, "abc", string(v))
}

func TestWithPrefix(t *testing.T) {
	m := NewMemory()
	s := WithPrefix(m, "user:7:")
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "favs", []byte("[]")))
	assert.Equal(t, []string{"user:7:favs"}, m.Keys())
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	db, err := OpenBolt(path)
	require.NoError(t, err)

	s, err := db.Store("prefs")
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "lang", []byte("bg")))
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = s.Get(context.Background(), "lang")
	assert.ErrorIs(t, err, ErrStoreClosed)

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()
	s2, err := reopened.Store("prefs")
	require.NoError(t, err)
	v, err := s2.Get(context.Background(), "lang")
	require.NoError(t, err)
	assert.Equal(t, "bg", string(v))

	var keys []string
	require.NoError(t, s2.ForEach(func(k string, _ []byte) error {
		keys = append(keys, k)
		return nil
	}))
	assert.Equal(t, []string{"lang"}, keys)
}

func TestBolt_InvalidInput(t *testing.T) {
	_, err := OpenBolt("  ")
	assert.Error(t, err)

	db, err := OpenBolt(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Store(metaBucketName)
	assert.Error(t, err)
	_, err = db.Store("")
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	cfg := redis.DefaultConfig()
	cfg.KeyPrefix = "myai-kv-test:" + uuid.NewString()[:8] + ":"
	cfg.DialTimeout = 500 * time.Millisecond
	client, err := redis.New(cfg, nil)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	exerciseStore(t, NewRedis(client, time.Minute))
}
