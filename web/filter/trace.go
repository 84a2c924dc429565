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
	"time"

	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
)

const DefaultTraceHeader = "X-Request-Id"

// TraceFilter takes the request id from Header, or generates one, and
// makes it the trace id of the logger for the current goroutine. The id is
// echoed on the response and an access log line is written once the
// response is complete. The connection layer cleans the goroutine local
// state.
type TraceFilter struct {
	Header string
}

func (f TraceFilter) header() string {
	if f.Header == "" {
		return DefaultTraceHeader
	}
	return f.Header
}

func (f TraceFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	traceID := req.Headers.Get(f.header())
	if traceID == "" {
		traceID = tools.UUID()
	}
	golocal.PutTraceID(traceID)
	req.Put(protocol.AttrTraceID, traceID)
	if _, ok := req.Get(protocol.AttrBeginTime); !ok {
		req.Put(protocol.AttrBeginTime, time.Now())
	}
	next(req, resp, false)
}

func (f TraceFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	if resp.BodyOnly {
		next(resp)
		return
	}
	resp.Headers.Set(f.header(), req.GetString(protocol.AttrTraceID))

	var cost time.Duration
	if v, ok := req.Get(protocol.AttrBeginTime); ok {
		cost = time.Since(v.(time.Time))
	}
	logger.Info("%s %s %s %d %dms", req.ClientAddress, req.Method, req.FullPath, resp.Status.Code, cost.Milliseconds())
	next(resp)
}
