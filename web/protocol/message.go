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
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	crlf           = []byte("\r\n")
	headerTerminus = []byte("\r\n\r\n")

	requestLineRegexp  = regexp.MustCompile(`^(\S*) (\S*) HTTP/([\d.]*)$`)
	statusLineRegexp   = regexp.MustCompile(`^HTTP/([\d.]*) (\d+) ?(.*)$`)
	headerLineRegexp   = regexp.MustCompile(`^([\w-]*):[ \t]*(.*)$`)
	continuationRegexp = regexp.MustCompile(`^[ \t]+(.*)$`)
)

// splitMessage cuts data on the first blank line. Without one the whole
// buffer is the head.
func splitMessage(data []byte) (head, body []byte) {
	if i := bytes.Index(data, headerTerminus); i >= 0 {
		return data[:i], data[i+len(headerTerminus):]
	}
	return data, nil
}

// decodeText returns "" for bytes that are not valid UTF-8.
func decodeText(data []byte) string {
	if !utf8.Valid(data) {
		return ""
	}
	return string(data)
}

// headerParser accumulates header lines. Cookie lines are collected apart
// from the other headers, key holds the cookie header name of the current
// direction.
type headerParser struct {
	cookieKey     string
	headers       Header
	cookieHeaders []string

	lastKey    string
	lastCookie bool
}

func newHeaderParser(cookieKey string) *headerParser {
	return &headerParser{cookieKey: cookieKey, headers: make(Header)}
}

func (p *headerParser) parseLine(line string) {
	if m := continuationRegexp.FindStringSubmatch(line); m != nil {
		if p.lastCookie && len(p.cookieHeaders) > 0 {
			p.cookieHeaders[len(p.cookieHeaders)-1] += " " + m[1]
		} else if p.lastKey != "" {
			p.headers[p.lastKey] += " " + m[1]
		}
		return
	}

	m := headerLineRegexp.FindStringSubmatch(line)
	if m == nil {
		p.lastKey, p.lastCookie = "", false
		return
	}
	if strings.EqualFold(m[1], p.cookieKey) {
		p.cookieHeaders = append(p.cookieHeaders, m[2])
		p.lastKey, p.lastCookie = "", true
		return
	}
	p.headers[m[1]] = m[2]
	p.lastKey, p.lastCookie = m[1], false
}

func (p *headerParser) parseLines(lines []string) {
	for _, line := range lines {
		p.parseLine(line)
	}
}

func splitLines(head []byte) []string {
	text := decodeText(head)
	if text == "" {
		return nil
	}
	return strings.Split(text, string(crlf))
}

// writeMessage renders a start line, sorted headers, cookie lines and body.
func writeMessage(buf *bytes.Buffer, startLine string, headers Header, cookieLines []string, body []byte) {
	buf.WriteString(startLine)
	buf.Write(crlf)
	for _, key := range headers.Keys() {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(headers[key])
		buf.Write(crlf)
	}
	for _, line := range cookieLines {
		buf.WriteString(line)
		buf.Write(crlf)
	}
	buf.Write(crlf)
	buf.Write(body)
}
