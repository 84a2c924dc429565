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
	"fmt"
	"regexp"

	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/web/filter"
	"github.com/caiflower/tailor/web/protocol"
)

var paramRegexp = regexp.MustCompile(`:(\w+)`)

// HandlerFunc produces the response for a route. It must call callback,
// once for a normal response or once per fragment when streaming.
type HandlerFunc func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback)

type Route struct {
	path        RoutePath
	handler     HandlerFunc
	description string
	regexp      *regexp.Regexp
	paramNames  []string
	controller  string
	action      string
	filters     filter.Chain
}

// NewRoute compiles path. A pattern that is not a valid expression gives a
// route that never matches.
func NewRoute(path RoutePath, handler HandlerFunc, description string) *Route {
	r := &Route{
		path:        path,
		handler:     handler,
		description: description,
	}

	for _, m := range paramRegexp.FindAllStringSubmatch(path.Pattern, -1) {
		r.paramNames = append(r.paramNames, m[1])
	}

	i := 0
	expr := paramRegexp.ReplaceAllStringFunc(path.Pattern, func(string) string {
		group := fmt.Sprintf("(?P<p%d>[^/]*)", i)
		i++
		return group
	})

	re, err := regexp.Compile("^" + expr + "/?$")
	if err != nil {
		logger.Warn("Route %s has an invalid pattern and will never match. Error: %s", path, err.Error())
		return r
	}
	r.regexp = re
	return r
}

func (r *Route) Path() RoutePath {
	return r.path
}

func (r *Route) Method() string {
	return r.path.Method
}

func (r *Route) Pattern() string {
	return r.path.Pattern
}

func (r *Route) Description() string {
	return r.description
}

func (r *Route) ParamNames() []string {
	return append([]string(nil), r.paramNames...)
}

func (r *Route) Controller() string {
	return r.controller
}

func (r *Route) Action() string {
	return r.action
}

func (r *Route) Filters() filter.Chain {
	return append(filter.Chain(nil), r.filters...)
}

func (r *Route) FullDescription() string {
	return r.path.String() + " " + r.description
}

// CanHandle needs an exact method match and a match on the decoded path.
func (r *Route) CanHandle(req *protocol.Request) bool {
	if r.regexp == nil || req.Method != r.path.Method {
		return false
	}
	return r.regexp.MatchString(req.DecodedPath())
}

// pathValues extracts the path parameters in pattern order.
func (r *Route) pathValues(path string) []string {
	if r.regexp == nil {
		return nil
	}
	m := r.regexp.FindStringSubmatch(path)
	if m == nil {
		return nil
	}
	values := make([]string, len(r.paramNames))
	for i := range r.paramNames {
		if idx := r.regexp.SubexpIndex(fmt.Sprintf("p%d", i)); idx >= 0 {
			values[i] = m[idx]
		}
	}
	return values
}

// Handle sets the path parameters on a copy of req, replacing values with
// the same key, and runs the handler inside the route filters.
func (r *Route) Handle(req *protocol.Request, callback protocol.ResponseCallback) {
	logger.Debug("Processing with %s", r.description)

	req = req.Clone()
	if values := r.pathValues(req.DecodedPath()); values != nil {
		for i, name := range r.paramNames {
			req.Params.Set(name, values[i])
		}
	}
	req.Put(protocol.AttrRoutePattern, r.path.Pattern)

	r.filters.Run(req, protocol.NewResponse(), filter.Handler(r.handler), callback)
}
