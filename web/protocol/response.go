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

package protocol

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/caiflower/tailor/pkg/tools"
)

var now = time.Now

// Response is built by handlers and filters. A response with
// HasDefinedLength unset is streamed, the fragments after the first one
// are sent with BodyOnly.
type Response struct {
	Status           Status
	Headers          Header
	Cookies          *CookieJar
	HasDefinedLength bool
	BodyOnly         bool

	body []byte
}

func NewResponse() *Response {
	return &Response{
		Status:           StatusOK,
		Headers:          make(Header),
		Cookies:          NewCookieJar(),
		HasDefinedLength: true,
	}
}

// NewStatusResponse returns a response with status and a plain text body.
func NewStatusResponse(status Status, body string) *Response {
	resp := NewResponse()
	resp.Status = status
	resp.AppendString(body)
	return resp
}

func (r *Response) Body() []byte {
	return r.body
}

func (r *Response) BodyString() string {
	return decodeText(r.body)
}

func (r *Response) Append(data []byte) {
	r.body = append(r.body, data...)
}

func (r *Response) AppendString(s string) {
	r.body = append(r.body, s...)
}

func (r *Response) Write(p []byte) (int, error) {
	r.Append(p)
	return len(p), nil
}

func (r *Response) SetBody(data []byte) {
	r.body = append([]byte(nil), data...)
}

func (r *Response) ClearBody() {
	r.body = nil
}

// WriteJSON replaces the body with the json encoding of v.
func (r *Response) WriteJSON(v interface{}) error {
	data, err := tools.Marshal(v)
	if err != nil {
		return err
	}
	r.body = data
	r.Headers.Set(HeaderContentType, JSONContentType)
	return nil
}

// Clone returns a copy that shares no mutable state with r. The bodies
// share their bytes until one side appends.
func (r *Response) Clone() *Response {
	c := *r
	c.Headers = r.Headers.Clone()
	c.Cookies = r.Cookies.Clone()
	c.body = r.body[:len(r.body):len(r.body)]
	return &c
}

func (r *Response) Equal(o *Response) bool {
	return r.Status == o.Status &&
		r.HasDefinedLength == o.HasDefinedLength &&
		r.BodyOnly == o.BodyOnly &&
		bytes.Equal(r.body, o.body) &&
		len(r.Headers) == len(o.Headers) &&
		headersEqual(r.Headers, o.Headers) &&
		r.Cookies.Equal(o.Cookies)
}

func headersEqual(a, b Header) bool {
	for k, v := range a {
		if w, ok := b[k]; !ok || v != w {
			return false
		}
	}
	return true
}

// Bytes serializes the response. Content-Length, Content-Type and Date
// are filled in when they are not set.
func (r *Response) Bytes() []byte {
	if r.BodyOnly {
		return r.body
	}

	headers := r.Headers.Clone()
	if r.HasDefinedLength && !headers.Has(HeaderContentLength) {
		headers[HeaderContentLength] = strconv.Itoa(len(r.body))
	}
	if !headers.Has(HeaderContentType) {
		headers[HeaderContentType] = DefaultContentType
	}
	if !headers.Has(HeaderDate) {
		headers[HeaderDate] = now().UTC().Format(http.TimeFormat)
	}

	buf := &bytes.Buffer{}
	writeMessage(buf, "HTTP/1.1 "+r.Status.String(), headers, r.Cookies.ChangedHeaderLines(), r.body)
	return buf.Bytes()
}

// ParseResponse reads a serialized response. A malformed status line
// leaves the status at 200.
func ParseResponse(data []byte) *Response {
	resp := NewResponse()
	head, body := splitMessage(data)
	resp.body = body
	lines := splitLines(head)

	if len(lines) > 0 {
		if m := statusLineRegexp.FindStringSubmatch(lines[0]); m != nil {
			code, _ := strconv.Atoi(m[2])
			resp.Status = Status{Code: code, Reason: m[3]}
		}
		lines = lines[1:]
	}

	parser := newHeaderParser(HeaderSetCookie)
	parser.parseLines(lines)
	resp.Headers = parser.headers
	for _, s := range parser.cookieHeaders {
		if cookie, ok := parseSetCookie(s); ok {
			resp.Cookies.SetCookie(cookie)
		}
	}
	return resp
}
