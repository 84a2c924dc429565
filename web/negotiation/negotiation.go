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

package negotiation

import (
	"strconv"
	"strings"

	"github.com/caiflower/tailor/web/protocol"
	"golang.org/x/exp/slices"
)

// Option is one entry of an Accept style header, e.g. "text/html;level=1;q=0.5".
type Option struct {
	Type    string
	Subtype string
	Flags   map[string]string
	Quality float64
}

func ParseOption(s string) Option {
	segments := strings.Split(s, ";")
	option := Option{Flags: make(map[string]string), Quality: 1}

	typ, subtype, _ := strings.Cut(strings.TrimSpace(segments[0]), "/")
	option.Type = strings.TrimSpace(typ)
	option.Subtype = strings.TrimSpace(subtype)

	for _, segment := range segments[1:] {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "q" {
			q, err := strconv.ParseFloat(value, 64)
			switch {
			case err != nil || q < 0:
				q = 0
			case q > 1:
				q = 1
			}
			option.Quality = q
			continue
		}
		option.Flags[key] = value
	}
	return option
}

// Matches reports whether candidate is acceptable for this option. Flags
// present on the candidate but not on the option are ignored.
func (o Option) Matches(candidate string) bool {
	c := ParseOption(candidate)
	if o.Type != "*" && o.Type != c.Type {
		return false
	}
	if o.Subtype != "*" && o.Subtype != c.Subtype {
		return false
	}
	for k, v := range o.Flags {
		if cv, ok := c.Flags[k]; !ok || cv != v {
			return false
		}
	}
	return true
}

func (o Option) String() string {
	var sb strings.Builder
	sb.WriteString(o.Type)
	if o.Subtype != "" {
		sb.WriteString("/" + o.Subtype)
	}
	keys := make([]string, 0, len(o.Flags))
	for k := range o.Flags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(";" + k + "=" + o.Flags[k])
	}
	if o.Quality != 1 {
		sb.WriteString(";q=" + strconv.FormatFloat(o.Quality, 'f', -1, 64))
	}
	return sb.String()
}

// Preference is a list of options ordered by descending quality. Options
// with the same quality keep their header order.
type Preference []Option

func ParsePreference(header string) Preference {
	var preference Preference
	for _, s := range strings.Split(header, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		preference = append(preference, ParseOption(s))
	}
	slices.SortStableFunc(preference, func(a, b Option) bool {
		return a.Quality > b.Quality
	})
	return preference
}

// Acceptable drops the options with quality 0.
func (p Preference) Acceptable() Preference {
	out := make(Preference, 0, len(p))
	for _, o := range p {
		if o.Quality > 0 {
			out = append(out, o)
		}
	}
	return out
}

// matchIndex is the index of the first option matching candidate, -1 if
// there is none.
func (p Preference) matchIndex(candidate string) int {
	for i, option := range p {
		if option.Matches(candidate) {
			return i
		}
	}
	return -1
}

// BestMatch returns the candidate matched by the highest ranked option.
// Candidates matched by the same option keep their input order.
func (p Preference) BestMatch(candidates ...string) (string, bool) {
	best, bestIndex := "", -1
	for _, candidate := range candidates {
		i := p.matchIndex(candidate)
		if i < 0 {
			continue
		}
		if bestIndex < 0 || i < bestIndex {
			best, bestIndex = candidate, i
		}
	}
	return best, bestIndex >= 0
}

func FromRequest(req *protocol.Request, header string) Preference {
	return ParsePreference(req.Headers.Get(header))
}

func Accept(req *protocol.Request) Preference {
	return FromRequest(req, protocol.HeaderAccept)
}

func AcceptEncoding(req *protocol.Request) Preference {
	return FromRequest(req, protocol.HeaderAcceptEncoding)
}

func AcceptLanguage(req *protocol.Request) Preference {
	return FromRequest(req, protocol.HeaderAcceptLanguage)
}

func AcceptCharset(req *protocol.Request) Preference {
	return FromRequest(req, protocol.HeaderAcceptCharset)
}
