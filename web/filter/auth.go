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
	"github.com/caiflower/tailor/web/protocol"
)

const RedirectPathCookie = "_redirectPath"

// AuthenticationFilter redirects to SignInURL when Authenticate rejects the
// request, remembering the requested path in a cookie. Two filters are
// equal when they share the sign in url.
type AuthenticationFilter struct {
	Passthrough
	SignInURL    string
	Authenticate func(req *protocol.Request) bool
}

func (f AuthenticationFilter) Equal(other RequestFilter) bool {
	o, ok := other.(AuthenticationFilter)
	return ok && o.SignInURL == f.SignInURL
}

func (f AuthenticationFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	if f.Authenticate != nil && f.Authenticate(req) {
		next(req, resp, false)
		return
	}

	resp.Cookies.Set(RedirectPathCookie, req.Path)
	resp.Status = protocol.StatusSeeOther
	resp.Headers.Set(protocol.HeaderLocation, f.SignInURL)
	resp.AppendString(`<html><body>You are being <a href="` + f.SignInURL + `">redirected</a>.`)
	next(req, resp, true)
}
