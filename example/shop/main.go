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

package main

import (
	"flag"
	"reflect"

	"github.com/caiflower/tailor/global"
	"github.com/caiflower/tailor/global/config"
	"github.com/caiflower/tailor/global/env"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/redis"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/filter"
	"github.com/caiflower/tailor/web/router"
	"github.com/caiflower/tailor/web/server"
)

var configPath = flag.String("config", "", "directory of default.yaml, overrides CONFIG_PATH")

func main() {
	flag.Parse()
	if *configPath != "" {
		env.ConfigPath = *configPath
	}

	cfg := config.DefaultConfig{}
	if err := config.LoadDefaultConfig(&cfg); err != nil {
		logger.Warn("Load config from %s failed, using defaults. Error: %s", env.ConfigPath, err.Error())
		tools.DoTagFunc(&cfg, []func(reflect.StructField, reflect.Value){tools.SetDefaultValueIfNil})
	}
	logger.InitLogger(&cfg.LoggerConfig)

	routes := router.Load(func(routes *router.RouteSet) {
		defineRoutes(routes, &cfg)
	})
	routes.PrintRoutes()

	global.DefaultResourceManger.AddDaemon(server.NewHttpServer(cfg.ServerConfig))
	global.DefaultResourceManger.Signal()
}

func defineRoutes(routes *router.RouteSet, cfg *config.DefaultConfig) {
	filters := []filter.RequestFilter{
		&filter.TraceFilter{Header: filter.DefaultTraceHeader},
		filter.NewMetricFilter(cfg.ServerConfig.Name, filter.NewHttpMetric(nil)),
		filter.NewRateLimitFilter(cfg.RateLimitConfig),
		&filter.CompressFilter{MinLength: 1024},
		&filter.EtagFilter{},
	}

	routes.WithScope(router.Scope{Filters: filters}, func() {
		routes.AddRedirect("/", "/hats")
		routes.AddControllerRoutes(newHatsController())
		routes.WithScope(router.Scope{Filters: []filter.RequestFilter{newAssetCache(cfg)}}, func() {
			routes.StaticAssets("/assets", cfg.StaticPath, "site.css", "app.js")
		})
	})
}

// newAssetCache shares cached assets through redis when it is configured
// and reachable, otherwise they are cached in memory.
func newAssetCache(cfg *config.DefaultConfig) *filter.CacheFilter {
	if len(cfg.RedisConfig.Addrs) > 0 {
		client, err := redis.NewRedisClient(cfg.RedisConfig)
		if err == nil {
			return filter.NewSharedCacheFilter(cfg.CacheTTL, filter.NewRedisStore(client))
		}
		logger.Warn("Redis unavailable, caching assets in memory. Error: %s", err.Error())
	}
	return filter.NewCacheFilter(cfg.CacheTTL)
}
