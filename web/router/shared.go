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

import "sync/atomic"

var (
	shared   atomic.Pointer[RouteSet]
	emptySet = NewRouteSet()
)

// Load builds a new route set and makes it the shared one. Requests that
// already started keep the set they started with.
func Load(build func(routes *RouteSet)) *RouteSet {
	routes := NewRouteSet()
	build(routes)
	shared.Store(routes)
	return routes
}

// Shared returns the current shared route set, an empty one before Load.
func Shared() *RouteSet {
	if routes := shared.Load(); routes != nil {
		return routes
	}
	return emptySet
}
