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
	"strconv"
	"strings"
)

// Attribute keys shared by the router and the filters.
const (
	AttrRoutePattern = "web/router/route_pattern"
	AttrBeginTime    = "web/filter/begin_time"
	AttrTraceID      = "web/filter/trace_id"
)

// Request is a parsed HTTP request. Method, Version, FullPath, Path,
// ClientAddress, Headers and Data are fixed at parse time, the remaining
// fields may be changed by routes and filters.
type Request struct {
	Method        string
	Version       string
	FullPath      string
	Path          string
	ClientAddress string
	Headers       Header
	Data          []byte
	Body          []byte

	Params        *Params
	Cookies       *CookieJar
	UploadedFiles map[string]UploadedFile

	attributes map[string]interface{}
}

// ParseRequest never fails, malformed input degrades to defaults.
func ParseRequest(clientAddress string, data []byte) *Request {
	req := &Request{
		Method:        "GET",
		Version:       "1.1",
		FullPath:      "/",
		ClientAddress: clientAddress,
		Data:          data,
		Cookies:       NewCookieJar(),
		UploadedFiles: make(map[string]UploadedFile),
	}

	head, body := splitMessage(data)
	req.Body = body
	lines := splitLines(head)

	parser := newHeaderParser(HeaderCookie)
	// line 0 is always the request line, even when it does not match
	if len(lines) > 0 {
		if m := requestLineRegexp.FindStringSubmatch(lines[0]); m != nil {
			req.Method, req.FullPath, req.Version = m[1], m[2], m[3]
		}
		lines = lines[1:]
	}
	parser.parseLines(lines)
	req.Headers = parser.headers
	for _, s := range parser.cookieHeaders {
		req.Cookies.AddHeaderString(s)
	}

	req.Path = req.FullPath
	if i := strings.LastIndexByte(req.FullPath, '?'); i >= 0 {
		req.Path = req.FullPath[:i]
	}
	req.Params = parseRequestParameters(req)
	return req
}

func parseRequestParameters(req *Request) *Params {
	params := DecodeQueryString(req.QueryString())

	contentType := req.Headers.Get(HeaderContentType)
	switch {
	case strings.HasPrefix(contentType, FormContentType):
		params.Merge(DecodeQueryString(decodeText(req.Body)))
	case strings.HasPrefix(contentType, MultipartContentType):
		parseMultipart(contentType, req.Body, params, req.UploadedFiles)
	}
	return params
}

// QueryString is the text after the last '?' of the full path.
func (r *Request) QueryString() string {
	if i := strings.LastIndexByte(r.FullPath, '?'); i >= 0 {
		return r.FullPath[i+1:]
	}
	return ""
}

func (r *Request) BodyText() string {
	return decodeText(r.Body)
}

// DecodedPath is the percent-decoded path, or the raw one when it does
// not decode.
func (r *Request) DecodedPath() string {
	return DecodePath(r.Path)
}

// Put stores a value for the lifetime of this request.
func (r *Request) Put(key string, value interface{}) {
	if r.attributes == nil {
		r.attributes = make(map[string]interface{})
	}
	r.attributes[key] = value
}

func (r *Request) Get(key string) (interface{}, bool) {
	v, ok := r.attributes[key]
	return v, ok
}

func (r *Request) GetString(key string) string {
	v, _ := r.attributes[key].(string)
	return v
}

// Bytes serializes the request back to the wire format.
func (r *Request) Bytes() []byte {
	headers := r.Headers.Clone()
	if len(r.Body) > 0 && !headers.Has(HeaderContentLength) {
		headers[HeaderContentLength] = strconv.Itoa(len(r.Body))
	}

	buf := &bytes.Buffer{}
	writeMessage(buf, r.Method+" "+r.FullPath+" HTTP/"+r.Version, headers, r.Cookies.RequestHeaderLines(), r.Body)
	return buf.Bytes()
}

func (r *Request) Clone() *Request {
	c := *r
	c.Headers = r.Headers.Clone()
	c.Params = r.Params.Clone()
	c.Cookies = r.Cookies.Clone()
	c.UploadedFiles = make(map[string]UploadedFile, len(r.UploadedFiles))
	for k, v := range r.UploadedFiles {
		c.UploadedFiles[k] = v
	}
	if r.attributes != nil {
		c.attributes = make(map[string]interface{}, len(r.attributes))
		for k, v := range r.attributes {
			c.attributes[k] = v
		}
	}
	return &c
}
