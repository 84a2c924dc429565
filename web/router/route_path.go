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

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodHead    = "HEAD"
	MethodTrace   = "TRACE"
	MethodConnect = "CONNECT"
)

var methods = map[string]struct{}{
	MethodGet: {}, MethodPost: {}, MethodPut: {}, MethodPatch: {}, MethodDelete: {},
	MethodOptions: {}, MethodHead: {}, MethodTrace: {}, MethodConnect: {},
}

// RoutePath is a method plus a path pattern.
type RoutePath struct {
	Method  string
	Pattern string
}

// BuildRoutePath fails for anything but the nine upper case HTTP verbs.
func BuildRoutePath(method, pattern string) (RoutePath, bool) {
	if _, ok := methods[method]; !ok {
		return RoutePath{}, false
	}
	return RoutePath{Method: method, Pattern: pattern}, true
}

func Get(pattern string) RoutePath     { return RoutePath{MethodGet, pattern} }
func Post(pattern string) RoutePath    { return RoutePath{MethodPost, pattern} }
func Put(pattern string) RoutePath     { return RoutePath{MethodPut, pattern} }
func Patch(pattern string) RoutePath   { return RoutePath{MethodPatch, pattern} }
func Delete(pattern string) RoutePath  { return RoutePath{MethodDelete, pattern} }
func Options(pattern string) RoutePath { return RoutePath{MethodOptions, pattern} }
func Head(pattern string) RoutePath    { return RoutePath{MethodHead, pattern} }

// WithPattern keeps the method and swaps the pattern.
func (p RoutePath) WithPattern(pattern string) RoutePath {
	return RoutePath{Method: p.Method, Pattern: pattern}
}

func (p RoutePath) String() string {
	return p.Method + " " + p.Pattern
}
