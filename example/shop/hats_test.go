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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caiflower/tailor/global/config"
	"github.com/caiflower/tailor/pkg/redis"
	"github.com/caiflower/tailor/pkg/redis/redistest"
	"github.com/caiflower/tailor/web/filter"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/caiflower/tailor/web/router"
	"github.com/stretchr/testify/assert"
)

func newShop(t *testing.T) *router.RouteSet {
	routes := router.NewRouteSet()
	defineRoutes(routes, &config.DefaultConfig{StaticPath: t.TempDir()})
	return routes
}

func call(routes *router.RouteSet, req *protocol.Request) *protocol.Response {
	var result *protocol.Response
	routes.Handle(req, func(resp *protocol.Response) {
		result = resp
	})
	return result
}

func TestShop(t *testing.T) {
	routes := newShop(t)

	resp := call(routes, protocol.NewRequest())
	assert.Equal(t, protocol.StatusSeeOther, resp.Status)
	assert.Equal(t, "/hats", resp.Headers.Get(protocol.HeaderLocation))

	resp = call(routes, protocol.NewRequest(protocol.WithMethod("POST"), protocol.WithPath("/hats"), protocol.WithParam("name", "top hat"), protocol.WithParam("color", "black")))
	assert.Equal(t, protocol.StatusSeeOther, resp.Status)
	assert.Equal(t, "/hats/1", resp.Headers.Get(protocol.HeaderLocation))

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats/1")))
	assert.Equal(t, protocol.StatusOK, resp.Status)
	assert.Contains(t, resp.BodyString(), `"name":"top hat"`)
	assert.Contains(t, resp.BodyString(), `"color":"black"`)
	assert.NotEmpty(t, resp.Headers.Get(protocol.HeaderETag))
	assert.NotEmpty(t, resp.Headers.Get("X-Request-Id"))

	resp = call(routes, protocol.NewRequest(protocol.WithMethod("POST"), protocol.WithPath("/hats/1"), protocol.WithParam("color", "grey")))
	assert.Equal(t, "/hats/1", resp.Headers.Get(protocol.HeaderLocation))

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats"), protocol.WithHeader(protocol.HeaderAccept, "text/html")))
	assert.Equal(t, `<ul><li><a href="/hats/1">top hat</a></li></ul>`, resp.BodyString())

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats")))
	assert.Contains(t, resp.BodyString(), `"color":"grey"`)

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats"), protocol.WithHeader(protocol.HeaderAccept, "image/png")))
	assert.Equal(t, protocol.StatusNotAcceptable, resp.Status)
	assert.Contains(t, resp.BodyString(), `"Type":"NotAcceptable"`)

	resp = call(routes, protocol.NewRequest(protocol.WithMethod("POST"), protocol.WithPath("/hats/1/destroy")))
	assert.Equal(t, "/hats", resp.Headers.Get(protocol.HeaderLocation))

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats/1")))
	assert.Equal(t, protocol.StatusNotFound, resp.Status)
	assert.Contains(t, resp.BodyString(), `"Type":"NotFound"`)

	resp = call(routes, protocol.NewRequest(protocol.WithMethod("POST"), protocol.WithPath("/hats")))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)

	resp = call(routes, protocol.NewRequest(protocol.WithPath("/hats/1/edit")))
	assert.Equal(t, protocol.StatusNotFound, resp.Status)
	assert.Equal(t, router.NotFoundBody, resp.BodyString())
}

func TestShopAssetCache(t *testing.T) {
	server, err := redistest.NewServer()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer server.Close()

	cfg := &config.DefaultConfig{StaticPath: t.TempDir(), CacheTTL: time.Minute}
	cfg.RedisConfig = redis.Config{Addrs: []string{server.Addr()}, MinIdleConns: 1}
	assert.NoError(t, os.WriteFile(filepath.Join(cfg.StaticPath, "site.css"), []byte("body{}"), 0o644))

	routes := router.NewRouteSet()
	defineRoutes(routes, cfg)

	resp := call(routes, protocol.NewRequest(protocol.WithPath("/assets/site.css")))
	assert.Equal(t, "body{}", resp.BodyString())
	assert.False(t, resp.Headers.Has(filter.HeaderCache))
	assert.Equal(t, 1, server.Keys())

	// served from redis even after the file changed
	assert.NoError(t, os.WriteFile(filepath.Join(cfg.StaticPath, "site.css"), []byte("p{}"), 0o644))
	resp = call(routes, protocol.NewRequest(protocol.WithPath("/assets/site.css")))
	assert.Equal(t, "body{}", resp.BodyString())
	assert.Equal(t, "HIT", resp.Headers.Get(filter.HeaderCache))
}

func TestShopAssetCacheWithoutRedis(t *testing.T) {
	cfg := &config.DefaultConfig{StaticPath: t.TempDir(), CacheTTL: time.Minute}
	cfg.RedisConfig = redis.Config{Addrs: []string{"127.0.0.1:1"}, MinIdleConns: 1}
	assert.NoError(t, os.WriteFile(filepath.Join(cfg.StaticPath, "app.js"), []byte("run()"), 0o644))

	routes := router.NewRouteSet()
	defineRoutes(routes, cfg)

	call(routes, protocol.NewRequest(protocol.WithPath("/assets/app.js")))
	resp := call(routes, protocol.NewRequest(protocol.WithPath("/assets/app.js")))
	assert.Equal(t, "run()", resp.BodyString())
	assert.Equal(t, "HIT", resp.Headers.Get(filter.HeaderCache))
}
