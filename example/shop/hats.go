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
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/caiflower/tailor/web/common/e"
	"github.com/caiflower/tailor/web/common/resp"
	"github.com/caiflower/tailor/web/negotiation"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/caiflower/tailor/web/router"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type hat struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type hatsController struct {
	routes *router.RouteSet

	lock   sync.RWMutex
	nextID int
	hats   map[int]*hat
}

func newHatsController() *hatsController {
	return &hatsController{hats: make(map[int]*hat)}
}

func (c *hatsController) ControllerName() string {
	return "hats"
}

func (c *hatsController) DefineRoutes(routes *router.RouteSet) {
	c.routes = routes
	routes.WithScope(router.Scope{Path: "/hats"}, func() {
		routes.AddRestfulRoutes(map[string]router.HandlerFunc{
			router.ActionIndex:   c.index,
			router.ActionCreate:  c.create,
			router.ActionShow:    c.show,
			router.ActionUpdate:  c.update,
			router.ActionDestroy: c.destroy,
		}, router.Except(router.ActionNew, router.ActionEdit))
	})
}

func (c *hatsController) list() []hat {
	c.lock.RLock()
	defer c.lock.RUnlock()

	ids := maps.Keys(c.hats)
	slices.Sort(ids)
	list := make([]hat, 0, len(ids))
	for _, id := range ids {
		list = append(list, *c.hats[id])
	}
	return list
}

func (c *hatsController) find(req *protocol.Request, response *protocol.Response) (*hat, bool) {
	id, ok := req.Params.LookupInt("id")
	if ok {
		c.lock.RLock()
		h, found := c.hats[id]
		c.lock.RUnlock()
		if found {
			return h, true
		}
	}
	resp.WriteError(response, e.NewApiError(e.NotFound, "hat "+req.Params.Get("id")+" not found", nil))
	return nil, false
}

func (c *hatsController) redirect(response *protocol.Response, action string, params map[string]string) {
	path, _ := c.routes.PathFor(c.ControllerName(), action, params)
	response.Status = protocol.StatusSeeOther
	response.Headers.Set(protocol.HeaderLocation, path)
}

func (c *hatsController) index(req *protocol.Request, response *protocol.Response, callback protocol.ResponseCallback) {
	hats := c.list()

	t, ok := negotiation.Accept(req).Acceptable().BestMatch(protocol.JSONContentType, "text/html")
	if !ok && req.Headers.Has(protocol.HeaderAccept) {
		resp.WriteError(response, e.NewApiError(e.NotAcceptable, "hats are served as json or html", nil))
		callback(response)
		return
	}

	if t == "text/html" {
		sb := strings.Builder{}
		sb.WriteString("<ul>")
		for _, h := range hats {
			path, _ := c.routes.PathFor(c.ControllerName(), router.ActionShow, map[string]string{"id": strconv.Itoa(h.ID)})
			sb.WriteString(`<li><a href="` + path + `">` + html.EscapeString(h.Name) + "</a></li>")
		}
		sb.WriteString("</ul>")
		response.AppendString(sb.String())
	} else {
		_ = resp.WriteData(response, hats)
	}
	callback(response)
}

func (c *hatsController) create(req *protocol.Request, response *protocol.Response, callback protocol.ResponseCallback) {
	name := req.Params.Get("name")
	if name == "" {
		resp.WriteError(response, e.NewApiError(e.InvalidArgument, "name is required", nil))
		callback(response)
		return
	}

	c.lock.Lock()
	c.nextID++
	h := &hat{ID: c.nextID, Name: name, Color: req.Params.Get("color")}
	c.hats[h.ID] = h
	c.lock.Unlock()

	c.redirect(response, router.ActionShow, map[string]string{"id": strconv.Itoa(h.ID)})
	callback(response)
}

func (c *hatsController) show(req *protocol.Request, response *protocol.Response, callback protocol.ResponseCallback) {
	if h, ok := c.find(req, response); ok {
		c.lock.RLock()
		data := *h
		c.lock.RUnlock()
		_ = resp.WriteData(response, data)
	}
	callback(response)
}

func (c *hatsController) update(req *protocol.Request, response *protocol.Response, callback protocol.ResponseCallback) {
	if h, ok := c.find(req, response); ok {
		c.lock.Lock()
		if name, ok := req.Params.Lookup("name"); ok && name != "" {
			h.Name = name
		}
		if color, ok := req.Params.Lookup("color"); ok {
			h.Color = color
		}
		c.lock.Unlock()
		c.redirect(response, router.ActionShow, map[string]string{"id": strconv.Itoa(h.ID)})
	}
	callback(response)
}

func (c *hatsController) destroy(req *protocol.Request, response *protocol.Response, callback protocol.ResponseCallback) {
	if h, ok := c.find(req, response); ok {
		c.lock.Lock()
		delete(c.hats, h.ID)
		c.lock.Unlock()
		c.redirect(response, router.ActionIndex, nil)
	}
	callback(response)
}
