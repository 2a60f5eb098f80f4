// Copyright 2026 courserec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"time"

	"github.com/courserec/courserec/dataset"
	"github.com/jellydator/ttlcache/v3"
)

// ResultCache memoizes ranked course lists by query. Results only depend on the
// query since the service is immutable once built.
type ResultCache struct {
	cache *ttlcache.Cache[string, []dataset.Course]
}

// NewResultCache creates a cache. A zero capacity means unlimited.
func NewResultCache(ttl time.Duration, capacity uint64) *ResultCache {
	options := []ttlcache.Option[string, []dataset.Course]{
		ttlcache.WithTTL[string, []dataset.Course](ttl),
		ttlcache.WithDisableTouchOnHit[string, []dataset.Course](),
	}
	if capacity > 0 {
		options = append(options, ttlcache.WithCapacity[string, []dataset.Course](capacity))
	}
	return &ResultCache{cache: ttlcache.New[string, []dataset.Course](options...)}
}

// Start deletes expired results until Stop is called.
func (c *ResultCache) Start() {
	c.cache.Start()
}

func (c *ResultCache) Stop() {
	c.cache.Stop()
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}

// GetOrLoad returns the cached result of key, or calls load and caches its result.
func (c *ResultCache) GetOrLoad(key string, load func() []dataset.Course) []dataset.Course {
	if item := c.cache.Get(key); item != nil {
		CacheHitsTotal.Inc()
		return item.Value()
	}
	CacheMissesTotal.Inc()
	result := load()
	c.cache.Set(key, result, ttlcache.DefaultTTL)
	return result
}

func recommendKey(userId string, n int) string {
	return fmt.Sprintf("recommend/%d/%s", n, userId)
}

func similarKey(courseId string, n int) string {
	return fmt.Sprintf("similar/%d/%s", n, courseId)
}
