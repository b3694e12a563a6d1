package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "product:p1", entry{Name: "Router", Price: 5000}))

	var got entry
	found, err := c.Get(ctx, "product:p1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "Router", Price: 5000}, got)

	found, err = c.Get(ctx, "product:p2", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", entry{Name: "x"}))

	c.now = func() time.Time { return now.Add(2 * time.Minute) }

	var got entry
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	c.evictExpired()
	assert.Equal(t, 0, c.Size())
}

func TestMemory_DeletePrefix(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "products:list", []entry{}))
	require.NoError(t, c.Set(ctx, "products:p1", entry{}))
	require.NoError(t, c.Set(ctx, "other", entry{}))

	require.NoError(t, c.DeletePrefix(ctx, "products:"))
	assert.Equal(t, 1, c.Size())

	require.NoError(t, c.Delete(ctx, "other", "missing"))
	assert.Equal(t, 0, c.Size())
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	c := NewMemory(time.Minute, time.Millisecond)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNoop(t *testing.T) {
	var c Store = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{}))
	found, err := c.Get(ctx, "k", &entry{})
	require.NoError(t, err)
	assert.False(t, found)
}

const testRedisAddr = "localhost:6379"

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := NewRedisWithClient(client, "test:"+t.Name()+":", time.Minute)
	defer c.Close()
	defer c.DeletePrefix(ctx, "")

	require.NoError(t, c.Set(ctx, "products:p1", entry{Name: "Router"}))
	require.NoError(t, c.Set(ctx, "products:list", []entry{{Name: "Router"}}))

	var got entry
	found, err := c.Get(ctx, "products:p1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Router", got.Name)

	require.NoError(t, c.DeletePrefix(ctx, "products:"))

	found, err = c.Get(ctx, "products:p1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
