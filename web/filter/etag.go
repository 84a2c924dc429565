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
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
)

// EtagFilter tags 200 responses with the MD5 of their body and answers
// 304 without a body when the request already has that tag. Streamed
// responses pass untouched, their body is not known up front.
type EtagFilter struct {
	Passthrough
}

func (EtagFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	if resp.Status.Code != protocol.StatusOK.Code || resp.BodyOnly || !resp.HasDefinedLength {
		next(resp)
		return
	}

	resp = resp.Clone()
	tag := tools.MD5Bytes(resp.Body())
	resp.Headers.Set(protocol.HeaderETag, tag)
	if req.Headers.Get(protocol.HeaderIfNoneMatch) == tag {
		resp.Status = protocol.StatusNotModified
		resp.ClearBody()
	}
	next(resp)
}
