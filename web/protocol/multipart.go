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
)

var (
	dispositionNameRegexp     = regexp.MustCompile(`(?:^|[;\s])name="([^"]*)"`)
	dispositionFileNameRegexp = regexp.MustCompile(`filename="([^"]*)"`)
)

type UploadedFile struct {
	ContentType string
	FileName    string
	Data        []byte
}

// boundary extracts the boundary parameter of a multipart content type.
func boundary(contentType string) string {
	_, b, ok := strings.Cut(contentType, "boundary=")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(b, ';'); i >= 0 {
		b = b[:i]
	}
	return strings.Trim(strings.TrimSpace(b), `"`)
}

// parseMultipart adds text parts to params and file parts to files.
// Parts without a name are skipped.
func parseMultipart(contentType string, body []byte, params *Params, files map[string]UploadedFile) {
	b := boundary(contentType)
	if b == "" {
		return
	}

	for _, part := range bytes.Split(body, []byte("--"+b)) {
		if len(part) <= 4 {
			continue
		}
		part = bytes.TrimPrefix(part, crlf)
		part = bytes.TrimSuffix(part, crlf)

		head, data := splitMessage(part)
		parser := newHeaderParser(HeaderCookie)
		parser.parseLines(splitLines(head))

		m := dispositionNameRegexp.FindStringSubmatch(parser.headers.Get(HeaderContentDisposition))
		if m == nil {
			continue
		}
		name := m[1]

		if contentType, ok := parser.headers.Lookup(HeaderContentType); ok {
			file := UploadedFile{ContentType: contentType, Data: data}
			if fm := dispositionFileNameRegexp.FindStringSubmatch(parser.headers.Get(HeaderContentDisposition)); fm != nil {
				file.FileName = fm[1]
			}
			files[name] = file
			continue
		}
		params.Add(name, decodeText(data))
	}
}
