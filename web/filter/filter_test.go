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
	"testing"

	"github.com/caiflower/tailor/web/protocol"
	"github.com/stretchr/testify/assert"
)

type recordFilter struct {
	name string
	log  *[]string
	stop bool
}

func (f recordFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	*f.log = append(*f.log, f.name+".pre")
	resp.Headers.Set("X-"+f.name, "pre")
	next(req, resp, f.stop)
}

func (f recordFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	*f.log = append(*f.log, f.name+".post")
	resp.AppendString("|" + f.name)
	next(resp)
}

func recordHandler(log *[]string) Handler {
	return func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback) {
		*log = append(*log, "H")
		resp.AppendString("H")
		callback(resp)
	}
}

func runChain(chain Chain, handler Handler) *protocol.Response {
	var result *protocol.Response
	chain.Run(protocol.NewRequest(), protocol.NewResponse(), handler, func(resp *protocol.Response) {
		result = resp
	})
	return result
}

func TestChainOnionOrder(t *testing.T) {
	var log []string
	chain := Chain{recordFilter{name: "F1", log: &log}, recordFilter{name: "F2", log: &log}}

	resp := runChain(chain, recordHandler(&log))
	assert.Equal(t, []string{"F1.pre", "F2.pre", "H", "F2.post", "F1.post"}, log)
	assert.Equal(t, "H|F2|F1", resp.BodyString())
	assert.Equal(t, "pre", resp.Headers.Get("X-F2"))
}

func TestChainStopInFirstFilter(t *testing.T) {
	var log []string
	chain := Chain{recordFilter{name: "F1", log: &log, stop: true}, recordFilter{name: "F2", log: &log}}

	resp := runChain(chain, recordHandler(&log))
	assert.Equal(t, []string{"F1.pre", "F1.post"}, log)
	assert.Equal(t, "|F1", resp.BodyString())
}

func TestChainStopInMiddle(t *testing.T) {
	var log []string
	chain := Chain{
		recordFilter{name: "F1", log: &log},
		recordFilter{name: "F2", log: &log, stop: true},
		recordFilter{name: "F3", log: &log},
	}

	runChain(chain, recordHandler(&log))
	assert.Equal(t, []string{"F1.pre", "F2.pre", "F2.post", "F1.post"}, log)
}

func TestEmptyChain(t *testing.T) {
	var log []string
	resp := runChain(nil, recordHandler(&log))
	assert.Equal(t, []string{"H"}, log)
	assert.Equal(t, "H", resp.BodyString())
}

func TestChainPassesReplacedRequest(t *testing.T) {
	var seen string
	replace := preFunc(func(req *protocol.Request, resp *protocol.Response, next PreCallback) {
		c := req.Clone()
		c.Params.Set("user", "u1")
		next(c, resp, false)
	})

	runChain(Chain{replace}, func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback) {
		seen = req.Params.Get("user")
		callback(resp)
	})
	assert.Equal(t, "u1", seen)
}

type preFunc func(req *protocol.Request, resp *protocol.Response, next PreCallback)

func (f preFunc) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	f(req, resp, next)
}

func (f preFunc) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	next(resp)
}

func TestEqualAndWithout(t *testing.T) {
	var log []string
	f1 := recordFilter{name: "F1", log: &log}
	f2 := recordFilter{name: "F2", log: &log}
	auth := AuthenticationFilter{SignInURL: "/login", Authenticate: func(*protocol.Request) bool { return true }}

	assert.True(t, Equal(EtagFilter{}, EtagFilter{}))
	assert.False(t, Equal(EtagFilter{}, CsrfFilter{}))
	assert.True(t, Equal(f1, recordFilter{name: "F1", log: &log}))
	assert.False(t, Equal(f1, f2))
	assert.True(t, Equal(auth, AuthenticationFilter{SignInURL: "/login"}))
	assert.False(t, Equal(auth, AuthenticationFilter{SignInURL: "/other"}))
	assert.False(t, Equal(preFunc(nil), preFunc(nil)))

	chain := Chain{f1, EtagFilter{}, f2, auth}
	without := chain.Without(EtagFilter{}).Without(AuthenticationFilter{SignInURL: "/login"})
	assert.Equal(t, Chain{f1, f2}, without)
	assert.Len(t, chain, 4)

	with := without.With(CsrfFilter{})
	assert.Len(t, with, 3)
	assert.Len(t, without, 2)
}
