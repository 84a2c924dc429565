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
	"github.com/caiflower/tailor/pkg/logger"
)

// Controller groups the routes of one logical handler. The name is the
// stable identity used by PathFor.
type Controller interface {
	ControllerName() string
	DefineRoutes(routes *RouteSet)
}

// AddControllerRoutes lets every controller add its routes with itself as
// the current controller.
func (s *RouteSet) AddControllerRoutes(controllers ...Controller) {
	for _, c := range controllers {
		c := c
		s.WithScope(Scope{Controller: c.ControllerName()}, func() {
			c.DefineRoutes(s)
		})
	}
}

const (
	ActionIndex   = "index"
	ActionNew     = "new"
	ActionCreate  = "create"
	ActionShow    = "show"
	ActionEdit    = "edit"
	ActionUpdate  = "update"
	ActionDestroy = "destroy"
)

var restfulRoutes = []struct {
	action string
	path   RoutePath
}{
	{ActionIndex, Get("")},
	{ActionNew, Get("new")},
	{ActionCreate, Post("")},
	{ActionShow, Get(":id")},
	{ActionEdit, Get(":id/edit")},
	{ActionUpdate, Post(":id")},
	{ActionDestroy, Post(":id/destroy")},
}

type restfulOptions struct {
	only   map[string]struct{}
	except map[string]struct{}
}

type RestfulOption func(*restfulOptions)

func Only(actions ...string) RestfulOption {
	return func(o *restfulOptions) {
		o.only = make(map[string]struct{}, len(actions))
		for _, a := range actions {
			o.only[a] = struct{}{}
		}
	}
}

func Except(actions ...string) RestfulOption {
	return func(o *restfulOptions) {
		for _, a := range actions {
			o.except[a] = struct{}{}
		}
	}
}

// AddRestfulRoutes adds index, new, create, show, edit, update and destroy
// for the current controller. Actions without a handler are skipped.
func (s *RouteSet) AddRestfulRoutes(handlers map[string]HandlerFunc, opts ...RestfulOption) {
	o := &restfulOptions{except: make(map[string]struct{})}
	for _, opt := range opts {
		opt(o)
	}

	for _, r := range restfulRoutes {
		if o.only != nil {
			if _, ok := o.only[r.action]; !ok {
				continue
			}
		}
		if _, ok := o.except[r.action]; ok {
			continue
		}
		handler, ok := handlers[r.action]
		if !ok {
			logger.Warn("Controller %s has no handler for restful action %s", s.controller, r.action)
			continue
		}
		s.Route(r.path, r.action, handler)
	}
}
