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
	"github.com/caiflower/tailor/web/negotiation"
	"github.com/caiflower/tailor/web/protocol"
)

const (
	EncodingBrotli = "br"
	EncodingGzip   = "gzip"
)

// CompressFilter encodes bodies of at least MinLength bytes with the
// encoding the client prefers. A wildcard Accept-Encoding gets br.
// Streamed responses are left alone.
type CompressFilter struct {
	Passthrough
	MinLength int
}

func (f CompressFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	if resp.BodyOnly || !resp.HasDefinedLength || len(resp.Body()) == 0 || len(resp.Body()) < f.MinLength ||
		resp.Headers.Has(protocol.HeaderContentEncoding) {
		next(resp)
		return
	}

	encoding, ok := negotiation.AcceptEncoding(req).Acceptable().BestMatch(EncodingBrotli, EncodingGzip)
	if !ok {
		next(resp)
		return
	}

	var (
		data []byte
		err  error
	)
	switch encoding {
	case EncodingBrotli:
		data, err = tools.Brotil(resp.Body())
	default:
		data, err = tools.Gzip(resp.Body())
	}
	if err != nil {
		logger.Error("Compress response with %s failed. Error: %s", encoding, err.Error())
		next(resp)
		return
	}

	resp = resp.Clone()
	resp.SetBody(data)
	resp.Headers.Del(protocol.HeaderContentLength)
	resp.Headers.Set(protocol.HeaderContentEncoding, encoding)
	resp.Headers.Set(protocol.HeaderVary, protocol.HeaderAcceptEncoding)
	next(resp)
}
