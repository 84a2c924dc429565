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

package router

import (
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
)

// StaticAssets serves every asset under prefix from localPrefix, read on
// each request. Responses carry the MD5 of the file as ETag and a matching
// If-None-Match gets a 304. Missing files are a 404.
func (s *RouteSet) StaticAssets(prefix, localPrefix string, assets ...string) {
	for _, asset := range assets {
		localPath := filepath.Join(localPrefix, filepath.FromSlash(asset))
		pattern := strings.TrimSuffix(prefix, "/") + "/" + regexp.QuoteMeta(strings.TrimPrefix(asset, "/"))
		if !tools.FileExists(localPath) {
			logger.Warn("Static asset %s does not exist yet", localPath)
		}

		s.Add(Get(pattern), func(req *protocol.Request, resp *protocol.Response, callback protocol.ResponseCallback) {
			contents, err := os.ReadFile(localPath)
			if err != nil {
				resp.Status = protocol.StatusNotFound
				callback(resp)
				return
			}

			contentType := mime.TypeByExtension(filepath.Ext(localPath))
			if contentType == "" {
				contentType = "text/plain"
			}
			tag := tools.MD5Bytes(contents)
			resp.Headers.Set(protocol.HeaderETag, tag)
			resp.Headers.Set(protocol.HeaderContentType, contentType)
			if req.Headers.Get(protocol.HeaderIfNoneMatch) == tag {
				resp.Status = protocol.StatusNotModified
			} else {
				resp.Append(contents)
			}
			callback(resp)
		}, "Static asset "+asset)
	}
}
