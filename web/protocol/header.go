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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentEncoding    = "Content-Encoding"
	HeaderDate               = "Date"
	HeaderCookie             = "Cookie"
	HeaderSetCookie          = "Set-Cookie"
	HeaderLocation           = "Location"
	HeaderAccept             = "Accept"
	HeaderAcceptEncoding     = "Accept-Encoding"
	HeaderAcceptLanguage     = "Accept-Language"
	HeaderAcceptCharset      = "Accept-Charset"
	HeaderETag               = "ETag"
	HeaderIfNoneMatch        = "If-None-Match"
	HeaderVary               = "Vary"

	DefaultContentType   = "text/html; charset=UTF-8"
	FormContentType      = "application/x-www-form-urlencoded"
	MultipartContentType = "multipart/form-data"
	JSONContentType      = "application/json; charset=UTF-8"
)

// Header holds one value per key. Keys keep the spelling they were set
// with; lookups fall back to a case-insensitive scan.
type Header map[string]string

func (h Header) Lookup(key string) (string, bool) {
	if v, ok := h[key]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (h Header) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

func (h Header) Has(key string) bool {
	_, ok := h.Lookup(key)
	return ok
}

func (h Header) Set(key, value string) {
	h[key] = value
}

func (h Header) Del(key string) {
	for k := range h {
		if strings.EqualFold(k, key) {
			delete(h, k)
		}
	}
}

// Keys returns the keys in byte order.
func (h Header) Keys() []string {
	keys := maps.Keys(h)
	slices.Sort(keys)
	return keys
}

func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}
