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
)

// Status is a response code plus its reason phrase. Any code is legal;
// the predefined values only cover the common ones.
type Status struct {
	Code   int
	Reason string
}

func NewStatus(code int, reason string) Status {
	return Status{Code: code, Reason: reason}
}

// StatusForCode uses the standard reason phrase of code.
func StatusForCode(code int) Status {
	return Status{Code: code, Reason: http.StatusText(code)}
}

func (s Status) String() string {
	return strconv.Itoa(s.Code) + " " + s.Reason
}

var (
	StatusContinue           = Status{100, "Continue"}
	StatusSwitchingProtocols = Status{101, "Switching Protocols"}

	StatusOK                          = Status{200, "OK"}
	StatusCreated                     = Status{201, "Created"}
	StatusAccepted                    = Status{202, "Accepted"}
	StatusNonAuthoritativeInformation = Status{203, "Non-Authoritative Information"}
	StatusNoContent                   = Status{204, "No Content"}
	StatusResetContent                = Status{205, "Reset Content"}
	StatusPartialContent              = Status{206, "Partial Content"}

	StatusMultipleChoices   = Status{300, "Multiple Choices"}
	StatusMovedPermanently  = Status{301, "Moved Permanently"}
	StatusFound             = Status{302, "Found"}
	StatusSeeOther          = Status{303, "See Other"}
	StatusNotModified       = Status{304, "Not Modified"}
	StatusUseProxy          = Status{305, "Use Proxy"}
	StatusTemporaryRedirect = Status{307, "Temporary Redirect"}

	StatusBadRequest                   = Status{400, "Bad Request"}
	StatusUnauthorized                 = Status{401, "Unauthorized"}
	StatusForbidden                    = Status{403, "Forbidden"}
	StatusNotFound                     = Status{404, "Not Found"}
	StatusMethodNotAllowed             = Status{405, "Method Not Allowed"}
	StatusNotAcceptable                = Status{406, "Not Acceptable"}
	StatusProxyAuthenticationRequired  = Status{407, "Proxy Authentication Required"}
	StatusRequestTimeout               = Status{408, "Request Timeout"}
	StatusConflict                     = Status{409, "Conflict"}
	StatusGone                         = Status{410, "Gone"}
	StatusLengthRequired               = Status{411, "Length Required"}
	StatusPreconditionFailed           = Status{412, "Precondition Failed"}
	StatusRequestEntityTooLarge        = Status{413, "Request Entity Too Large"}
	StatusRequestURITooLong            = Status{414, "Request-URI Too Long"}
	StatusUnsupportedMediaType         = Status{415, "Unsupported Media Type"}
	StatusRequestedRangeNotSatisfiable = Status{416, "Requested Range Not Satisfiable"}
	StatusExpectationFailed            = Status{417, "Expectation Failed"}
	StatusTooManyRequests              = Status{429, "Too Many Requests"}

	StatusInternalServerError     = Status{500, "Internal Server Error"}
	StatusNotImplemented          = Status{501, "Not Implemented"}
	StatusBadGateway              = Status{502, "Bad Gateway"}
	StatusServiceUnavailable      = Status{503, "Service Unavailable"}
	StatusGatewayTimeout          = Status{504, "Gateway Timeout"}
	StatusHTTPVersionNotSupported = Status{505, "HTTP Version Not Supported"}
)
