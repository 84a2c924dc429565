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

package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/stretchr/testify/assert"
)

type hatsController struct{}

func (hatsController) ControllerName() string {
	return "hats"
}

func (hatsController) DefineRoutes(routes *RouteSet) {
	routes.WithScope(Scope{Path: "/hats"}, func() {
		routes.AddRestfulRoutes(map[string]HandlerFunc{
			ActionIndex:   textHandler("index"),
			ActionNew:     textHandler("new"),
			ActionCreate:  textHandler("create"),
			ActionShow:    textHandler("show"),
			ActionEdit:    textHandler("edit"),
			ActionUpdate:  textHandler("update"),
			ActionDestroy: textHandler("destroy"),
		}, Except(ActionDestroy))
		routes.Route(Get(":id/size"), "size", textHandler("size"))
	})
}

func TestAddControllerRoutes(t *testing.T) {
	s := NewRouteSet()
	s.AddControllerRoutes(hatsController{})

	var descriptions []string
	for _, r := range s.Routes() {
		descriptions = append(descriptions, r.FullDescription())
	}
	assert.Equal(t, []string{
		"GET /hats hats#index",
		"GET /hats/new hats#new",
		"POST /hats hats#create",
		"GET /hats/:id hats#show",
		"GET /hats/:id/edit hats#edit",
		"POST /hats/:id hats#update",
		"GET /hats/:id/size hats#size",
	}, descriptions)

	cases := []struct {
		method, path, body string
	}{
		{"GET", "/hats", "index"},
		{"GET", "/hats/", "index"},
		{"GET", "/hats/new", "new"},
		{"POST", "/hats", "create"},
		{"GET", "/hats/3", "show"},
		{"GET", "/hats/3/edit", "edit"},
		{"POST", "/hats/3", "update"},
		{"GET", "/hats/3/size", "size"},
		{"POST", "/hats/3/destroy", NotFoundBody},
	}
	for _, c := range cases {
		resp := dispatch(s, protocol.NewRequest(protocol.WithMethod(c.method), protocol.WithPath(c.path)))
		assert.Equal(t, c.body, resp.BodyString(), "%s %s", c.method, c.path)
	}
}

func TestAddRestfulRoutesOnly(t *testing.T) {
	s := NewRouteSet()
	s.WithScope(Scope{Path: "coats", Controller: "coats"}, func() {
		s.AddRestfulRoutes(map[string]HandlerFunc{
			ActionIndex: textHandler("index"),
			ActionShow:  textHandler("show"),
			ActionEdit:  textHandler("edit"),
		}, Only(ActionIndex, ActionShow, ActionCreate))
	})

	var actions []string
	for _, r := range s.Routes() {
		actions = append(actions, r.Action())
		assert.Equal(t, "coats", r.Controller())
	}
	assert.Equal(t, []string{ActionIndex, ActionShow}, actions)
}

func TestPathFor(t *testing.T) {
	s := NewRouteSet()
	s.AddControllerRoutes(hatsController{})

	path, ok := s.PathFor("hats", ActionShow, map[string]string{"id": "7"})
	assert.True(t, ok)
	assert.Equal(t, "/hats/7", path)

	path, ok = s.PathFor("hats", ActionEdit, map[string]string{"id": "a b", "size": "L", "color": "red&blue"})
	assert.True(t, ok)
	assert.Equal(t, "/hats/a%20b/edit?color=red%26blue&size=L", path)

	path, ok = s.PathFor("hats", ActionIndex, nil)
	assert.True(t, ok)
	assert.Equal(t, "/hats", path)

	_, ok = s.PathFor("hats", ActionDestroy, nil)
	assert.False(t, ok)
	_, ok = s.PathFor("coats", ActionIndex, nil)
	assert.False(t, ok)

	url, ok := s.URLFor("hats", ActionShow, map[string]string{"id": "7"}, "example.com", true)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/hats/7", url)

	url, ok = s.URLFor("hats", ActionShow, map[string]string{"id": "7"}, "example.com", false)
	assert.True(t, ok)
	assert.Equal(t, "http://example.com/hats/7", url)

	url, ok = s.URLFor("hats", ActionShow, map[string]string{"id": "7"}, "", true)
	assert.True(t, ok)
	assert.Equal(t, "/hats/7", url)
}

func TestStaticAssets(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes"), []byte("hello"), 0o644))

	s := NewRouteSet()
	s.StaticAssets("/assets/", dir, "css/site.css", "notes", "missing.js")

	resp := dispatch(s, get("/assets/css/site.css"))
	assert.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, "body{}", resp.BodyString())
	assert.Contains(t, resp.Headers.Get(protocol.HeaderContentType), "text/css")
	tag := tools.MD5Bytes([]byte("body{}"))
	assert.Equal(t, tag, resp.Headers.Get(protocol.HeaderETag))

	resp = dispatch(s, protocol.NewRequest(protocol.WithPath("/assets/css/site.css"), protocol.WithHeader(protocol.HeaderIfNoneMatch, tag)))
	assert.Equal(t, protocol.StatusNotModified, resp.Status)
	assert.Empty(t, resp.Body())

	// the dot is literal
	assert.False(t, s.CanHandle(get("/assets/css/siteXcss")))

	resp = dispatch(s, get("/assets/notes"))
	assert.Equal(t, "text/plain", resp.Headers.Get(protocol.HeaderContentType))
	assert.Equal(t, "hello", resp.BodyString())

	resp = dispatch(s, get("/assets/missing.js"))
	assert.Equal(t, protocol.StatusNotFound, resp.Status)
	assert.Empty(t, resp.Body())

	// files are read on every request
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes"), []byte("changed"), 0o644))
	assert.Equal(t, "changed", dispatch(s, get("/assets/notes")).BodyString())
}

func TestSharedRouteSet(t *testing.T) {
	before := Shared()
	assert.NotNil(t, before)

	first := Load(func(routes *RouteSet) {
		routes.Add(Get("/version"), textHandler("v1"), "version")
	})
	assert.Same(t, first, Shared())

	inFlight := Shared()
	Load(func(routes *RouteSet) {
		routes.Add(Get("/version"), textHandler("v2"), "version")
	})

	assert.Equal(t, "v1", dispatch(inFlight, get("/version")).BodyString())
	assert.Equal(t, "v2", dispatch(Shared(), get("/version")).BodyString())
}
