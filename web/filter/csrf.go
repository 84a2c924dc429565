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
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
)

// CsrfKey names both the token cookie and the request parameter that must
// echo it.
const CsrfKey = "_csrfKey"

// CsrfFilter rejects non-GET requests whose _csrfKey parameter does not
// match the _csrfKey cookie. A missing cookie is generated first, the token
// is also stored on the request under CsrfKey for rendering forms.
type CsrfFilter struct {
	Passthrough
}

func (CsrfFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	key := req.Cookies.Get(CsrfKey)
	if key == "" {
		key = tools.UUID()
		resp.Cookies.Set(CsrfKey, key)
	}
	req.Put(CsrfKey, key)

	if req.Method != "GET" && req.Params.Get(CsrfKey) != key {
		logger.Warn("Request %s %s cannot continue because it lacks a valid CSRF token", req.Method, req.Path)
		resp.Status = protocol.StatusForbidden
		resp.AppendString("That action cannot be completed because of a security restriction.")
		next(req, resp, true)
		return
	}
	next(req, resp, false)
}
