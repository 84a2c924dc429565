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
	"reflect"

	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/web/protocol"
)

// PreCallback continues a chain after PreProcess. stop=true skips the
// remaining filters and the handler, post processing starts at the filter
// that stopped.
type PreCallback func(req *protocol.Request, resp *protocol.Response, stop bool)

// RequestFilter runs around a route handler. Each method must call next
// exactly once, a filter that never does leaves the request hanging.
// Per request data belongs in req.Put, not in the filter.
type RequestFilter interface {
	PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback)
	PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback)
}

// Handler is the terminal step of a chain.
type Handler func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback)

type equaler interface {
	Equal(other RequestFilter) bool
}

// Equal compares filters with their Equal method when they have one,
// otherwise with == when the dynamic type is comparable.
func Equal(a, b RequestFilter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(equaler); ok {
		return eq.Equal(b)
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Chain is an ordered list of filters.
type Chain []RequestFilter

// Without returns a copy of c with every filter equal to f removed.
func (c Chain) Without(f RequestFilter) Chain {
	out := make(Chain, 0, len(c))
	for _, v := range c {
		if !Equal(v, f) {
			out = append(out, v)
		}
	}
	return out
}

func (c Chain) With(filters ...RequestFilter) Chain {
	out := make(Chain, 0, len(c)+len(filters))
	out = append(out, c...)
	return append(out, filters...)
}

// Run pre-processes req with every filter in order, calls handler, then
// post-processes the response in reverse order and hands it to callback.
func (c Chain) Run(req *protocol.Request, resp *protocol.Response, handler Handler, callback protocol.ResponseCallback) {
	c.preProcess(0, req, resp, handler, callback)
}

func (c Chain) preProcess(i int, req *protocol.Request, resp *protocol.Response, handler Handler, callback protocol.ResponseCallback) {
	if i >= len(c) {
		handler(req, resp, func(newResp *protocol.Response) {
			c.postProcess(len(c)-1, req, newResp, callback)
		})
		return
	}

	c[i].PreProcess(req, resp, func(newReq *protocol.Request, newResp *protocol.Response, stop bool) {
		if stop {
			logger.Debug("Processing stopped due to filter %T", c[i])
			c.postProcess(i, newReq, newResp, callback)
			return
		}
		c.preProcess(i+1, newReq, newResp, handler, callback)
	})
}

func (c Chain) postProcess(i int, req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback) {
	if i < 0 {
		callback(resp)
		return
	}
	c[i].PostProcess(req, resp, func(newResp *protocol.Response) {
		c.postProcess(i-1, req, newResp, callback)
	})
}

// Passthrough provides no-op hooks for filters that only need one side.
type Passthrough struct{}

func (Passthrough) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	next(req, resp, false)
}

func (Passthrough) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	next(resp)
}
