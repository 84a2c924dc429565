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

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type jsonBody struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func TestJson(t *testing.T) {
	assert.Equal(t, `{"name":"hat","count":2}`, ToJson(jsonBody{Name: "hat", Count: 2}))
	assert.Equal(t, `{"name":"hat"}`, ToJson(jsonBody{Name: "hat"}))

	var out jsonBody
	assert.Nil(t, Unmarshal([]byte(`{"name":"cap","count":3}`), &out))
	assert.Equal(t, jsonBody{Name: "cap", Count: 3}, out)
}

func TestUUID(t *testing.T) {
	a, b := UUID(), UUID()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestMD5(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", MD5("hello"))
	assert.Equal(t, MD5("hello"), MD5Bytes([]byte("hello")))
}

func TestCompressRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")

	gz, err := Gzip(data)
	assert.Nil(t, err)
	plain, err := Gunzip(gz)
	assert.Nil(t, err)
	assert.Equal(t, data, plain)

	br, err := Brotil(data)
	assert.Nil(t, err)
	plain, err = UnBrotil(br)
	assert.Nil(t, err)
	assert.Equal(t, data, plain)

	empty, err := Gzip(nil)
	assert.Nil(t, err)
	assert.Empty(t, empty)
}
