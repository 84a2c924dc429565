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
	"net"
	"time"

	"github.com/caiflower/tailor/pkg/cache"
	"github.com/caiflower/tailor/pkg/limiter"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/web/common/e"
	"github.com/caiflower/tailor/web/common/resp"
	"github.com/caiflower/tailor/web/protocol"
)

// RateLimitFilter stops requests beyond Qos per second with a 429 json
// error. With PerClient every client host gets its own bucket, at most
// MaxClients buckets are kept. A positive Wait lets a request queue that
// long for a token before it is rejected.
type RateLimitFilter struct {
	Passthrough
	global  limiter.Limiter
	clients *cache.LRUCache[string, limiter.Limiter]
	qos     int
	burst   int
	wait    time.Duration
}

type RateLimitConfig struct {
	Qos        int           `yaml:"qos" default:"1000"`
	Burst      int           `yaml:"burst"`
	PerClient  bool          `yaml:"perClient"`
	MaxClients int           `yaml:"maxClients" default:"10000"`
	Wait       time.Duration `yaml:"wait"`
}

func NewRateLimitFilter(cfg RateLimitConfig) *RateLimitFilter {
	if cfg.Qos <= 0 {
		cfg.Qos = 1000
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.Qos
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}

	f := &RateLimitFilter{qos: cfg.Qos, burst: cfg.Burst, wait: cfg.Wait}
	if cfg.PerClient {
		f.clients = cache.NewLRUCache[string, limiter.Limiter](cfg.MaxClients)
	} else {
		f.global = limiter.NewXTokenBucket(cfg.Qos, cfg.Burst)
	}
	return f
}

func (f *RateLimitFilter) limiterFor(req *protocol.Request) limiter.Limiter {
	if f.clients == nil {
		return f.global
	}
	return f.clients.GetOrPut(clientHost(req.ClientAddress), func() limiter.Limiter {
		return limiter.NewXTokenBucket(f.qos, f.burst)
	})
}

// clientHost drops the port, every connection of a client comes from a new one.
func clientHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (f *RateLimitFilter) allow(l limiter.Limiter) bool {
	if f.wait > 0 {
		return l.TakeTokenWithTimeout(f.wait)
	}
	return l.TakeTokenNonBlocking()
}

func (f *RateLimitFilter) PreProcess(req *protocol.Request, response *protocol.Response, next PreCallback) {
	if f.allow(f.limiterFor(req)) {
		next(req, response, false)
		return
	}

	logger.Warn("Request %s %s from %s rejected by rate limit", req.Method, req.Path, req.ClientAddress)
	resp.WriteError(response, e.NewApiError(e.TooManyRequests, "TooManyRequests", nil))
	next(req, response, true)
}
