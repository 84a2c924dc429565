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
	"strings"
)

type requestOptions struct {
	method        string
	path          string
	version       string
	clientAddress string
	params        *Params
	headers       Header
	cookies       *CookieJar
	body          []byte
}

type RequestOption func(*requestOptions)

func WithMethod(method string) RequestOption {
	return func(o *requestOptions) { o.method = method }
}

func WithPath(path string) RequestOption {
	return func(o *requestOptions) { o.path = path }
}

func WithVersion(version string) RequestOption {
	return func(o *requestOptions) { o.version = version }
}

func WithClientAddress(addr string) RequestOption {
	return func(o *requestOptions) { o.clientAddress = addr }
}

func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) { o.params.Add(key, value) }
}

func WithParams(params map[string]string) RequestOption {
	return func(o *requestOptions) {
		for _, k := range Header(params).Keys() {
			o.params.Add(k, params[k])
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.headers.Set(key, value) }
}

func WithCookie(key, value string) RequestOption {
	return func(o *requestOptions) { o.cookies.SetCookie(NewCookie(key, value)) }
}

func WithBody(body []byte) RequestOption {
	return func(o *requestOptions) { o.body = body }
}

// NewRequest builds a request by rendering and parsing it, so the result
// looks exactly like a request read from a connection. Params go into the
// query string for GET and into a form body otherwise.
func NewRequest(opts ...RequestOption) *Request {
	o := &requestOptions{
		method:        "GET",
		path:          "/",
		version:       "1.1",
		clientAddress: "0.0.0.0",
		params:        NewParams(),
		headers:       make(Header),
		cookies:       NewCookieJar(),
	}
	for _, opt := range opts {
		opt(o)
	}

	path := o.path
	body := o.body
	if o.params.Len() > 0 {
		encoded := EncodeQueryString(o.params)
		if o.method == "GET" || body != nil {
			if strings.Contains(path, "?") {
				path += "&" + encoded
			} else {
				path += "?" + encoded
			}
		} else {
			body = []byte(encoded)
			if !o.headers.Has(HeaderContentType) {
				o.headers.Set(HeaderContentType, FormContentType)
			}
		}
	}

	raw := &Request{
		Method:   o.method,
		FullPath: path,
		Version:  o.version,
		Headers:  o.headers,
		Cookies:  o.cookies,
		Body:     body,
	}
	return ParseRequest(o.clientAddress, raw.Bytes())
}
