package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryCache 测试内存缓存
func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(Config{CleanupInterval: time.Minute})
	require.NoError(t, err)

	// 测试Set和Get
	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))
	val, found, err := c.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), val)

	// 返回值是副本
	val[0] = 'X'
	again, _, _ := c.Get(ctx, "key1")
	assert.Equal(t, []byte("value1"), again)

	// 测试不存在的键
	val, found, err = c.Get(ctx, "non-existent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)

	// 测试过期
	require.NoError(t, c.Set(ctx, "expire-soon", []byte("temp"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)
	_, found, _ = c.Get(ctx, "expire-soon")
	assert.False(t, found)

	// 测试删除
	require.NoError(t, c.Set(ctx, "to-delete", []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, "to-delete"))
	_, found, _ = c.Get(ctx, "to-delete")
	assert.False(t, found)

	// 测试清空
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.(*MemoryCache).ItemCount())
}

// TestRedisCache 使用miniredis测试Redis缓存
func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Type:       "redis",
		Prefix:     "pecqa",
		RedisAddr:  mr.Addr(),
		DefaultTTL: time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))
	val, found, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), val)

	// 键带前缀，且使用默认过期时间
	assert.True(t, mr.Exists("pecqa:key1"))
	assert.Equal(t, time.Hour, mr.TTL("pecqa:key1"))

	// 测试不存在的键
	_, found, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	// 测试过期
	require.NoError(t, c.Set(ctx, "expire-soon", []byte("temp"), time.Second))
	mr.FastForward(2 * time.Second)
	_, found, err = c.Get(ctx, "expire-soon")
	require.NoError(t, err)
	assert.False(t, found)

	// 测试删除
	require.NoError(t, c.Delete(ctx, "key1"))
	_, found, _ = c.Get(ctx, "key1")
	assert.False(t, found)

	// Clear只删除带前缀的键
	require.NoError(t, mr.Set("other", "keep"))
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("pecqa:a"))
	assert.False(t, mr.Exists("pecqa:b"))
	assert.True(t, mr.Exists("other"))
}

// TestRedisCacheUnavailable 测试Redis不可用
func TestRedisCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(Config{RedisAddr: addr})
	assert.Error(t, err)
}

// TestCacheFactory 测试缓存工厂函数
func TestCacheFactory(t *testing.T) {
	c, err := NewCache(DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	// 类型为空时使用内存缓存
	c, err = NewCache(Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	mr := miniredis.RunT(t)
	c, err = NewCache(Config{Type: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)

	_, err = NewCache(Config{Type: "unknown-type"})
	assert.Error(t, err)
}

// TestHashKey 测试缓存键生成
func TestHashKey(t *testing.T) {
	k1 := HashKey("embed", "model-a", "text")
	k2 := HashKey("embed", "model-a", "text")
	k3 := HashKey("embed", "model-b", "text")
	k4 := HashKey("embed", "model-atext")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
	assert.Regexp(t, `^embed:[0-9a-f]{64}$`, k1)
}
