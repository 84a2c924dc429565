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

package filter

import (
	"time"

	"github.com/caiflower/tailor/pkg/cache"
	"github.com/caiflower/tailor/web/protocol"
)

const (
	HeaderCache  = "X-Cache"
	attrCacheHit = "web/filter/cache_hit"
)

// ResponseStore keeps cached responses by full path.
type ResponseStore interface {
	Get(key string) (*protocol.Response, bool)
	Set(key string, resp *protocol.Response, ttl time.Duration)
	Delete(key string)
}

type localStore struct {
	cache *cache.LocalCache
}

func (l localStore) Get(key string) (*protocol.Response, bool) {
	if v, ok := l.cache.Get(key); ok {
		return v.(*protocol.Response), true
	}
	return nil, false
}

func (l localStore) Set(key string, resp *protocol.Response, ttl time.Duration) {
	l.cache.Set(key, resp, ttl)
}

func (l localStore) Delete(key string) {
	l.cache.Delete(key)
}

// CacheFilter answers GET requests from responses cached per full path.
// Only 200 responses with a defined length are stored, without the cookies
// they set.
type CacheFilter struct {
	store ResponseStore
	ttl   time.Duration
}

// NewCacheFilter caches in process memory.
func NewCacheFilter(ttl time.Duration) *CacheFilter {
	return NewSharedCacheFilter(ttl, localStore{cache: cache.NewLocalCache(ttl, time.Minute)})
}

// NewSharedCacheFilter caches in store, e.g. a RedisStore shared by
// several servers.
func NewSharedCacheFilter(ttl time.Duration, store ResponseStore) *CacheFilter {
	return &CacheFilter{store: store, ttl: ttl}
}

func (f *CacheFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	if req.Method != "GET" {
		next(req, resp, false)
		return
	}

	if stored, ok := f.store.Get(req.FullPath); ok {
		hit := stored.Clone()
		hit.Headers.Set(HeaderCache, "HIT")
		req.Put(attrCacheHit, true)
		next(req, hit, true)
		return
	}
	next(req, resp, false)
}

func (f *CacheFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	if _, hit := req.Get(attrCacheHit); !hit && req.Method == "GET" &&
		resp.Status.Code == protocol.StatusOK.Code && resp.HasDefinedLength && !resp.BodyOnly {
		stored := resp.Clone()
		stored.Cookies = protocol.NewCookieJar()
		f.store.Set(req.FullPath, stored, f.ttl)
	}
	next(resp)
}

// Invalidate drops the cached response of fullPath.
func (f *CacheFilter) Invalidate(fullPath string) {
	f.store.Delete(fullPath)
}
