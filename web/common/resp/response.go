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

package resp

import (
	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/common/e"
	"github.com/caiflower/tailor/web/protocol"
)

type Result struct {
	RequestId string
	Data      interface{} `json:",omitempty"`
	Error     *e.Error    `json:",omitempty"`
}

func requestID() string {
	if id := golocal.GetTraceID(); id != "" {
		return id
	}
	return tools.UUID()
}

// WriteError replaces the status and body of r with a json error document.
func WriteError(r *protocol.Response, err e.ApiError) {
	res := Result{
		RequestId: requestID(),
		Error:     &e.Error{Code: err.GetCode(), Type: err.GetType(), Message: err.GetMessage(), Cause: err.GetCause()},
	}
	r.Status = protocol.StatusForCode(err.GetCode())
	writeErrorBody(r, res, err)
}

// writeErrorBody falls back to the plain error text when v cannot be
// marshalled.
func writeErrorBody(r *protocol.Response, v interface{}, err e.ApiError) {
	if werr := r.WriteJSON(v); werr != nil {
		logger.Error("Write error response %s failed. Error: %s", err.Error(), werr.Error())
		r.ClearBody()
		r.Headers.Set(protocol.HeaderContentType, "text/plain; charset=UTF-8")
		r.AppendString(err.Error())
	}
}

// WriteData writes data wrapped in a Result.
func WriteData(r *protocol.Response, data interface{}) error {
	return r.WriteJSON(Result{RequestId: requestID(), Data: data})
}
