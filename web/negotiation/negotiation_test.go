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
	"testing"

	"github.com/caiflower/tailor/web/protocol"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseOption(t *testing.T) {
	cases := []struct {
		in   string
		want Option
	}{
		{"text/html", Option{Type: "text", Subtype: "html", Flags: map[string]string{}, Quality: 1}},
		{" text/html ; level = 1 ; q=0.5", Option{Type: "text", Subtype: "html", Flags: map[string]string{"level": "1"}, Quality: 0.5}},
		{"en-US;q=abc", Option{Type: "en-US", Flags: map[string]string{}, Quality: 0}},
		{"gzip;q=2;broken", Option{Type: "gzip", Flags: map[string]string{}, Quality: 1}},
	}

	for _, c := range cases {
		if diff := cmp.Diff(c.want, ParseOption(c.in)); diff != "" {
			t.Errorf("ParseOption(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestOptionMatches(t *testing.T) {
	assert.True(t, ParseOption("text/html").Matches("text/html"))
	assert.True(t, ParseOption("text/*").Matches("text/plain"))
	assert.True(t, ParseOption("*/*").Matches("image/png"))
	assert.False(t, ParseOption("text/html").Matches("text/plain"))
	assert.False(t, ParseOption("text/*").Matches("image/png"))

	assert.True(t, ParseOption("text/html;level=1").Matches("text/html;level=1;charset=utf-8"))
	assert.False(t, ParseOption("text/html;level=1").Matches("text/html"))
	assert.False(t, ParseOption("text/html;level=1").Matches("text/html;level=2"))
	assert.True(t, ParseOption("text/html").Matches("text/html;level=2"))
}

func TestParsePreferenceOrder(t *testing.T) {
	preference := ParsePreference("application/xml;q=0.5, application/html")
	assert.Len(t, preference, 2)
	assert.Equal(t, "html", preference[0].Subtype)
	assert.Equal(t, "xml", preference[1].Subtype)

	best, ok := preference.BestMatch("application/xml", "application/html")
	assert.True(t, ok)
	assert.Equal(t, "application/html", best)
}

func TestParsePreferenceStable(t *testing.T) {
	preference := ParsePreference("a;q=0.5, b, c;q=0.5, d")
	var order []string
	for _, o := range preference {
		order = append(order, o.Type)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, order)
}

func TestBestMatch(t *testing.T) {
	preference := ParsePreference("text/*;q=0.8, application/json")

	best, ok := preference.BestMatch("text/plain", "text/html", "application/json")
	assert.True(t, ok)
	assert.Equal(t, "application/json", best)

	best, ok = preference.BestMatch("text/plain", "text/html")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", best)

	_, ok = preference.BestMatch("image/png")
	assert.False(t, ok)

	_, ok = ParsePreference("").BestMatch("text/html")
	assert.False(t, ok)
}

func TestFromRequest(t *testing.T) {
	req := protocol.NewRequest(
		protocol.WithHeader("Accept-Encoding", "gzip;q=0.5, br"),
		protocol.WithHeader("Accept-Language", "fr, en;q=0.7"),
	)

	best, _ := AcceptEncoding(req).BestMatch("gzip", "br")
	assert.Equal(t, "br", best)

	best, _ = AcceptLanguage(req).BestMatch("en", "fr")
	assert.Equal(t, "fr", best)

	assert.Empty(t, Accept(req))
	assert.Empty(t, AcceptCharset(req))
}

func TestOptionString(t *testing.T) {
	assert.Equal(t, "text/html;level=1;q=0.5", ParseOption("text/html;q=0.5;level=1").String())
	assert.Equal(t, "gzip", ParseOption("gzip").String())
}

func TestAcceptable(t *testing.T) {
	preference := ParsePreference("gzip;q=0, br").Acceptable()
	_, ok := preference.BestMatch("gzip")
	assert.False(t, ok)

	best, ok := preference.BestMatch("gzip", "br")
	assert.True(t, ok)
	assert.Equal(t, "br", best)
}
