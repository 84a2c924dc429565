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
	"net/url"
	"strings"
)

// DecodeQueryString decodes a query string or a form-encoded body.
// A literal '+' means a space. Pairs without '=' get an empty value and
// repeated keys append. Undecodable escapes are kept as written.
func DecodeQueryString(s string) *Params {
	params := NewParams()
	if s == "" {
		return params
	}

	s = strings.ReplaceAll(s, "+", "%20")
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params.Add(unescape(key), unescape(value))
	}
	return params
}

// EncodeQueryString is the inverse of DecodeQueryString, keys in
// insertion order.
func EncodeQueryString(params *Params) string {
	if params == nil {
		return ""
	}

	var sb strings.Builder
	for _, key := range params.keys {
		for _, value := range params.values[key] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(value))
		}
	}
	return sb.String()
}

func unescape(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// DecodePath percent-decodes a request path, falling back to the raw path.
func DecodePath(path string) string {
	return unescape(path)
}
