// Package cache guarda las lecturas del catálogo. Los valores se guardan en
// JSON para que el backend en memoria y el de Redis se comporten igual.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Store es el contrato que usa el catálogo para su caché de lectura.
type Store interface {
	// Get decodifica el valor en dest e indica si se encontró.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

type item struct {
	value      []byte
	expiration int64
}

// Memory es un caché local al proceso con TTL.
type Memory struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemory crea un caché que limpia items expirados cada sweep.
func NewMemory(ttl, sweep time.Duration) *Memory {
	c := &Memory{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweep > 0 {
		go c.cleanupExpired(sweep)
	}
	return c
}

func (c *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || c.now().UnixNano() > it.expiration {
		return false, nil
	}
	if err := json.Unmarshal(it.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Memory) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      data,
		expiration: c.now().Add(c.ttl).UnixNano(),
	}
	return nil
}

func (c *Memory) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *Memory) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Size retorna el número de items en caché, incluidos los expirados.
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close detiene la limpieza periódica.
func (c *Memory) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *Memory) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Memory) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}

// Noop nunca guarda nada.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
func (Noop) Close() error { return nil }
