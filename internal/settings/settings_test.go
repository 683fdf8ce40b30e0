package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }

func TestStatic(t *testing.T) {
	s := Static{KeyToken: "  hf_abc  "}
	v, err := s.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "hf_abc", v)

	v, err = s.Get(context.Background(), KeyModel)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set(DefaultKeyPrefix+KeyToken, "hf_redis\n"))
	s := NewRedis(client, "")

	v, err := s.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "hf_redis", v)

	v, err = s.Get(context.Background(), KeyModel)
	require.NoError(t, err, "missing key is not an error")
	assert.Empty(t, v)
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("ext:"+KeyModel, "org/model"))
	v, err := NewRedis(client, "ext:").Get(context.Background(), KeyModel)
	require.NoError(t, err)
	assert.Equal(t, "org/model", v)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedis(client, "").Get(context.Background(), KeyToken)
	assert.Error(t, err)
}

func TestConn(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := RedisOptions{Host: mr.Host(), Port: mr.Port(), Timeout: time.Second}
	client, err := Conn(context.Background(), opts)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	opts.Timeout = 100 * time.Millisecond
	_, err = Conn(context.Background(), opts)
	assert.Error(t, err)
}

func TestLayered(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	l := Layered{failingStore{boom}, Static{}, Static{KeyToken: "second"}}
	v, err := l.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	l = Layered{Static{KeyToken: "first"}, Static{KeyToken: "second"}}
	v, _ = l.Get(ctx, KeyToken)
	assert.Equal(t, "first", v)

	l = Layered{failingStore{boom}, nil, Static{}}
	v, err = l.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, v)
}
