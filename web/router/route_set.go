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
	"net/url"
	"sort"
	"strings"

	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/web/filter"
	"github.com/caiflower/tailor/web/protocol"
)

const NotFoundBody = "File Not Found"

// RouteSet keeps routes in registration order, the first route that can
// handle a request wins. The prefix, controller and filter state only
// applies while routes are being added, every route keeps a snapshot of it.
type RouteSet struct {
	routes []*Route

	prefix     string
	controller string
	filters    filter.Chain
}

func NewRouteSet() *RouteSet {
	return &RouteSet{}
}

// Scope is applied to every route added inside WithScope.
type Scope struct {
	Path       string
	Controller string
	Filters    []filter.RequestFilter
}

type RouteOption func(*Route)

// WithController names the controller and action, used to look the route up
// in PathFor.
func WithController(controller, action string) RouteOption {
	return func(r *Route) {
		r.controller = controller
		r.action = action
	}
}

// WithScope adds the scope path segment to the prefix and the scope filters
// after the inherited ones, for the routes added by block.
func (s *RouteSet) WithScope(scope Scope, block func()) {
	oldPrefix, oldController, oldFilters := s.prefix, s.controller, s.filters

	if p := strings.Trim(scope.Path, "/"); p != "" {
		s.prefix += "/" + p
	}
	if scope.Controller != "" {
		s.controller = scope.Controller
	}
	s.filters = s.filters.With(scope.Filters...)

	defer func() {
		s.prefix, s.controller, s.filters = oldPrefix, oldController, oldFilters
	}()
	block()
}

// WithoutFilter removes f from the inherited filters for the routes added
// by block.
func (s *RouteSet) WithoutFilter(f filter.RequestFilter, block func()) {
	oldFilters := s.filters
	s.filters = s.filters.Without(f)
	defer func() {
		s.filters = oldFilters
	}()
	block()
}

func (s *RouteSet) fullPattern(pattern string) string {
	full := s.prefix
	if p := strings.TrimPrefix(pattern, "/"); p != "" {
		full += "/" + p
	}
	if full == "" {
		return "/"
	}
	return full
}

// Add registers handler for path under the current scope.
func (s *RouteSet) Add(path RoutePath, handler HandlerFunc, description string, opts ...RouteOption) *Route {
	route := NewRoute(path.WithPattern(s.fullPattern(path.Pattern)), handler, description)
	route.controller = s.controller
	route.filters = append(filter.Chain(nil), s.filters...)
	for _, opt := range opts {
		opt(route)
	}

	s.routes = append(s.routes, route)
	return route
}

// AddRoute is Add with a method name. An unknown method falls back to GET.
func (s *RouteSet) AddRoute(method, pattern string, handler HandlerFunc, description string, opts ...RouteOption) *Route {
	path, ok := BuildRoutePath(method, pattern)
	if !ok {
		logger.Warn("Unknown method %s for route %s, using GET", method, pattern)
		path = Get(pattern)
	}
	return s.Add(path, handler, description, opts...)
}

// Route adds an action of the current controller, described as
// "controller#action".
func (s *RouteSet) Route(path RoutePath, action string, handler HandlerFunc) *Route {
	return s.Add(path, handler, s.controller+"#"+action, WithController(s.controller, action))
}

// AddRedirect answers GET pattern with a 303 to target.
func (s *RouteSet) AddRedirect(pattern, target string) *Route {
	return s.Add(Get(pattern), func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback) {
		resp.Status = protocol.StatusSeeOther
		resp.Headers.Set(protocol.HeaderLocation, target)
		resp.AppendString("You are being redirected")
		callback(resp)
	}, "Redirect")
}

func (s *RouteSet) Routes() []*Route {
	return append([]*Route(nil), s.routes...)
}

func (s *RouteSet) Len() int {
	return len(s.routes)
}

func (s *RouteSet) match(req *protocol.Request) *Route {
	for _, route := range s.routes {
		if route.CanHandle(req) {
			return route
		}
	}
	return nil
}

func (s *RouteSet) CanHandle(req *protocol.Request) bool {
	return s.match(req) != nil
}

// Handle dispatches to the first matching route, or answers 404.
func (s *RouteSet) Handle(req *protocol.Request, callback protocol.ResponseCallback) {
	logger.Debug("Processing %s %s", req.Method, req.Path)

	if route := s.match(req); route != nil {
		route.Handle(req, callback)
		return
	}

	logger.Info("Unable to handle request %s %s", req.Method, req.Path)
	callback(protocol.NewStatusResponse(protocol.StatusNotFound, NotFoundBody))
}

// Handler adapts the set for the connection layer.
func (s *RouteSet) Handler() protocol.RequestHandler {
	return s.Handle
}

func (s *RouteSet) find(controller, action string) *Route {
	for _, route := range s.routes {
		if route.controller == controller && route.action == action {
			return route
		}
	}
	return nil
}

// PathFor fills the pattern of the route for controller and action with
// params. Params that are not in the pattern go into the query string,
// sorted by key.
func (s *RouteSet) PathFor(controller, action string, params map[string]string) (string, bool) {
	route := s.find(controller, action)
	if route == nil {
		return "", false
	}

	used := make(map[string]struct{}, len(params))
	path := paramRegexp.ReplaceAllStringFunc(route.path.Pattern, func(token string) string {
		name := token[1:]
		value, ok := params[name]
		if !ok {
			return token
		}
		used[name] = struct{}{}
		return url.PathEscape(value)
	})

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, ok := used[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return path, true
	}

	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return path + "?" + strings.Join(pairs, "&"), true
}

// URLFor is PathFor with a scheme and domain in front.
func (s *RouteSet) URLFor(controller, action string, params map[string]string, domain string, https bool) (string, bool) {
	path, ok := s.PathFor(controller, action, params)
	if !ok || domain == "" {
		return path, ok
	}
	scheme := "http"
	if https {
		scheme = "https"
	}
	return scheme + "://" + domain + path, true
}

func (s *RouteSet) PrintRoutes() {
	for _, route := range s.routes {
		logger.Info("%s", route.FullDescription())
	}
}
