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
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Cookie is one cookie of a request or a response. Changed marks a cookie
// set by the server while handling the current request, only those are
// sent back as Set-Cookie lines.
type Cookie struct {
	Key        string
	Value      string
	Path       string
	Domain     string
	ExpiresAt  *time.Time
	MaxAge     *int
	SecureOnly bool
	HttpOnly   bool
	Changed    bool
}

type CookieOption func(*Cookie)

func WithCookiePath(path string) CookieOption {
	return func(c *Cookie) { c.Path = path }
}

func WithCookieDomain(domain string) CookieOption {
	return func(c *Cookie) { c.Domain = domain }
}

func WithCookieExpiresAt(t time.Time) CookieOption {
	return func(c *Cookie) { c.ExpiresAt = &t }
}

func WithCookieMaxAge(seconds int) CookieOption {
	return func(c *Cookie) { c.MaxAge = &seconds }
}

func WithCookieSecureOnly() CookieOption {
	return func(c *Cookie) { c.SecureOnly = true }
}

func WithCookieHttpOnly() CookieOption {
	return func(c *Cookie) { c.HttpOnly = true }
}

func NewCookie(key, value string) Cookie {
	return Cookie{Key: key, Value: value, Path: "/"}
}

// Equal compares every attribute.
func (c Cookie) Equal(o Cookie) bool {
	if c.Key != o.Key || c.Value != o.Value || c.Path != o.Path || c.Domain != o.Domain ||
		c.SecureOnly != o.SecureOnly || c.HttpOnly != o.HttpOnly || c.Changed != o.Changed {
		return false
	}
	if (c.ExpiresAt == nil) != (o.ExpiresAt == nil) {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.Equal(*o.ExpiresAt) {
		return false
	}
	if (c.MaxAge == nil) != (o.MaxAge == nil) {
		return false
	}
	return c.MaxAge == nil || *c.MaxAge == *o.MaxAge
}

// HeaderString renders the value of a Set-Cookie header.
func (c Cookie) HeaderString() string {
	var sb strings.Builder
	sb.WriteString(c.Key)
	sb.WriteByte('=')
	sb.WriteString(c.Value)
	if c.Path != "" {
		sb.WriteString("; Path=" + c.Path)
	}
	if c.ExpiresAt != nil {
		sb.WriteString("; Expires=" + c.ExpiresAt.UTC().Format(http.TimeFormat))
	}
	if c.Domain != "" {
		sb.WriteString("; Domain=" + c.Domain)
	}
	if c.MaxAge != nil {
		sb.WriteString("; Max-Age=" + strconv.Itoa(*c.MaxAge))
	}
	if c.SecureOnly {
		sb.WriteString("; Secure")
	}
	if c.HttpOnly {
		sb.WriteString("; HttpOnly")
	}
	return sb.String()
}

// parseSetCookie reads a Set-Cookie value back into a changed cookie.
func parseSetCookie(s string) (Cookie, bool) {
	parts := strings.Split(s, ";")
	key, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok || key == "" {
		return Cookie{}, false
	}

	cookie := Cookie{Key: key, Value: value, Changed: true}
	for _, part := range parts[1:] {
		name, attr, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch strings.ToLower(name) {
		case "path":
			cookie.Path = attr
		case "domain":
			cookie.Domain = attr
		case "expires":
			if t, err := time.Parse(http.TimeFormat, attr); err == nil {
				cookie.ExpiresAt = &t
			}
		case "max-age":
			if i, err := strconv.Atoi(attr); err == nil {
				cookie.MaxAge = &i
			}
		case "secure":
			cookie.SecureOnly = true
		case "httponly":
			cookie.HttpOnly = true
		}
	}
	return cookie, true
}
