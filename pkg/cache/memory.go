package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache 进程内缓存，未配置 Redis 时使用
// 使用 sync.Map 保证并发安全，过期项在读取时懒删除
type MemoryCache struct {
	items sync.Map
	now   func() time.Time
}

type memoryItem struct {
	value      []byte
	expiration time.Time // 零值表示不过期
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := c.items.Load(key)
	if !ok {
		return nil, ErrMiss
	}

	item := val.(memoryItem)
	if !item.expiration.IsZero() && c.now().After(item.expiration) {
		c.items.Delete(key)
		return nil, ErrMiss
	}
	return item.value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiration = c.now().Add(ttl)
	}
	c.items.Store(key, item)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Delete(k)
	}
	return nil
}
