package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemorySize = 1000

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

func (m memoryItem) expired(now time.Time) bool {
	return !m.expireAt.IsZero() && now.After(m.expireAt)
}

// MemoryCache implements Service in process. It evicts the least recently used
// key when full and drops expired keys lazily.
type MemoryCache struct {
	items *lru.Cache[string, memoryItem]
	now   func() time.Time
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize: defaultMemorySize,
		Now:     time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMemorySize
	}
	items, err := lru.New[string, memoryItem](cfg.MaxSize)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &MemoryCache{items: items, now: cfg.Now}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	item := memoryItem{data: append([]byte(nil), data...)}
	if expiration > 0 {
		item.expireAt = mc.now().Add(expiration)
	}
	mc.items.Add(key, item)
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	item, ok := mc.items.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if item.expired(mc.now()) {
		mc.items.Remove(key)
		return ErrCacheMiss
	}
	return decode(item.data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		mc.items.Remove(key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	now := mc.now()
	for _, key := range keys {
		if item, ok := mc.items.Peek(key); ok && !item.expired(now) {
			return true, nil
		}
	}
	return false, nil
}

// Len reports how many keys are held, expired ones included until touched.
func (mc *MemoryCache) Len() int { return mc.items.Len() }

func (mc *MemoryCache) Close() error {
	mc.items.Purge()
	return nil
}
