/*
 * Copyright 2024 caiflower Authors
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

package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalCache 基于github.com/patrickmn/go-cache的本地cache
type LocalCache struct {
	c *cache.Cache
}

// NewLocalCache defaultExpiration为0时key没有超时时间, cleanupInterval为清理超时key的时间间隔
func NewLocalCache(defaultExpiration, cleanupInterval time.Duration) *LocalCache {
	if defaultExpiration <= 0 {
		defaultExpiration = cache.NoExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &LocalCache{c: cache.New(defaultExpiration, cleanupInterval)}
}

func (l *LocalCache) Get(key string) (interface{}, bool) {
	return l.c.Get(key)
}

// Set ttl为0时使用默认超时时间
func (l *LocalCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	l.c.Set(key, value, ttl)
}

func (l *LocalCache) Delete(key string) {
	l.c.Delete(key)
}

func (l *LocalCache) Len() int {
	return l.c.ItemCount()
}

func (l *LocalCache) Flush() {
	l.c.Flush()
}
