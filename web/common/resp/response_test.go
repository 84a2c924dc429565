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
	"errors"
	"testing"

	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/common/e"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	golocal.PutTraceID("req-1")
	defer golocal.Clean()

	r := protocol.NewResponse()
	WriteError(r, e.NewApiError(e.TooManyRequests, "slow down", errors.New("bucket empty")))

	assert.Equal(t, protocol.StatusTooManyRequests, r.Status)
	assert.Equal(t, protocol.JSONContentType, r.Headers.Get(protocol.HeaderContentType))

	var res Result
	assert.NoError(t, tools.Unmarshal(r.Body(), &res))
	assert.Equal(t, "req-1", res.RequestId)
	assert.Equal(t, 429, res.Error.Code)
	assert.Equal(t, "TooManyRequests", res.Error.Type)
	assert.Equal(t, "slow down", res.Error.Message)
	assert.Nil(t, res.Error.Cause)
}

func TestWriteErrorBodyFallback(t *testing.T) {
	r := protocol.NewResponse()
	r.AppendString("partial")
	writeErrorBody(r, make(chan int), e.NewApiError(e.NotFound, "no such hat", nil))

	assert.Equal(t, "text/plain; charset=UTF-8", r.Headers.Get(protocol.HeaderContentType))
	assert.Equal(t, "NotFound: no such hat", r.BodyString())
}

func TestWriteData(t *testing.T) {
	r := protocol.NewResponse()
	assert.NoError(t, WriteData(r, map[string]string{"name": "hat"}))

	var res map[string]interface{}
	assert.NoError(t, tools.Unmarshal(r.Body(), &res))
	assert.Len(t, res["RequestId"], 32)
	assert.Equal(t, map[string]interface{}{"name": "hat"}, res["Data"])
	assert.NotContains(t, res, "Error")
}
