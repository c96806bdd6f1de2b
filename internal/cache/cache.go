/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache stores raw upstream response bodies keyed by request path.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a byte cache shared by fetch endpoints.
type Store interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context) error
}

// Stats holds cache statistics.
type Stats struct {
	hits   int64
	misses int64
}

// Hits returns the number of cache hits.
func (s *Stats) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the number of cache misses.
func (s *Stats) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	total := s.Hits() + s.Misses()
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits()) / float64(total) * 100.0
}

// LRUStore is an in-memory Store backed by hashicorp's expirable LRU.
type LRUStore struct {
	cache *expirable.LRU[string, []byte]
	stats *Stats
}

// NewLRUStore creates a store holding at most size entries, each living for
// ttl (0 disables expiry).
func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	return &LRUStore{
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
		stats: &Stats{},
	}
}

// Get retrieves a value and updates statistics.
func (c *LRUStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.cache.Get(key)
	if ok {
		atomic.AddInt64(&c.stats.hits, 1)
	} else {
		atomic.AddInt64(&c.stats.misses, 1)
	}
	return value, ok, nil
}

// Set adds a value, evicting the least recently used entry when full.
func (c *LRUStore) Set(_ context.Context, key string, value []byte) error {
	c.cache.Add(key, value)
	return nil
}

// Delete removes a key.
func (c *LRUStore) Delete(_ context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}

// Purge clears all entries.
func (c *LRUStore) Purge(_ context.Context) error {
	c.cache.Purge()
	return nil
}

// Len returns the number of items in the cache.
func (c *LRUStore) Len() int {
	return c.cache.Len()
}

// Stats returns the cache statistics.
func (c *LRUStore) Stats() *Stats {
	return c.stats
}
