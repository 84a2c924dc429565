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

import "strings"

// CookieJar keeps cookies in the order they were first seen.
type CookieJar struct {
	cookies []Cookie
}

func NewCookieJar() *CookieJar {
	return &CookieJar{}
}

func (j *CookieJar) index(key string) int {
	for i := range j.cookies {
		if j.cookies[i].Key == key {
			return i
		}
	}
	return -1
}

func (j *CookieJar) put(cookie Cookie) {
	if i := j.index(cookie.Key); i >= 0 {
		j.cookies[i] = cookie
		return
	}
	j.cookies = append(j.cookies, cookie)
}

// Set stores a cookie set by the server, it is marked as changed.
func (j *CookieJar) Set(key, value string, opts ...CookieOption) {
	cookie := NewCookie(key, value)
	for _, opt := range opts {
		opt(&cookie)
	}
	cookie.Changed = true
	j.put(cookie)
}

// SetCookie stores cookie as given.
func (j *CookieJar) SetCookie(cookie Cookie) {
	j.put(cookie)
}

func (j *CookieJar) Lookup(key string) (string, bool) {
	if i := j.index(key); i >= 0 {
		return j.cookies[i].Value, true
	}
	return "", false
}

func (j *CookieJar) Get(key string) string {
	v, _ := j.Lookup(key)
	return v
}

func (j *CookieJar) Cookie(key string) (Cookie, bool) {
	if i := j.index(key); i >= 0 {
		return j.cookies[i], true
	}
	return Cookie{}, false
}

// AddHeaderString parses the value of a Cookie header, "a=1; b=2".
// Pairs without '=' are ignored.
func (j *CookieJar) AddHeaderString(s string) {
	for _, component := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(component), "=")
		if !ok || key == "" {
			continue
		}
		j.put(NewCookie(key, value))
	}
}

func (j *CookieJar) Cookies() []Cookie {
	return append([]Cookie(nil), j.cookies...)
}

func (j *CookieJar) Len() int {
	return len(j.cookies)
}

func (j *CookieJar) Dictionary() map[string]string {
	dict := make(map[string]string, len(j.cookies))
	for _, c := range j.cookies {
		dict[c.Key] = c.Value
	}
	return dict
}

// ChangedHeaderLines returns one "Set-Cookie: ..." line per changed cookie.
func (j *CookieJar) ChangedHeaderLines() []string {
	var lines []string
	for _, c := range j.cookies {
		if c.Changed {
			lines = append(lines, HeaderSetCookie+": "+c.HeaderString())
		}
	}
	return lines
}

// RequestHeaderLines returns one "Cookie: k=v" line per cookie.
func (j *CookieJar) RequestHeaderLines() []string {
	lines := make([]string, 0, len(j.cookies))
	for _, c := range j.cookies {
		lines = append(lines, HeaderCookie+": "+c.Key+"="+c.Value)
	}
	return lines
}

func (j *CookieJar) Equal(o *CookieJar) bool {
	if len(j.cookies) != len(o.cookies) {
		return false
	}
	for i := range j.cookies {
		if !j.cookies[i].Equal(o.cookies[i]) {
			return false
		}
	}
	return true
}

func (j *CookieJar) Clone() *CookieJar {
	return &CookieJar{cookies: append([]Cookie(nil), j.cookies...)}
}
