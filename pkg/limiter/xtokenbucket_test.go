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

package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestXTokenBucketNonBlocking(t *testing.T) {
	var l Limiter = NewXTokenBucket(1, 2)

	assert.True(t, l.TakeTokenNonBlocking())
	assert.True(t, l.TakeTokenNonBlocking())
	assert.False(t, l.TakeTokenNonBlocking())
}

func TestXTokenBucketTimeout(t *testing.T) {
	l := NewXTokenBucket(1, 1)
	assert.True(t, l.TakeTokenNonBlocking())

	// next token arrives after ~1s
	assert.False(t, l.TakeTokenWithTimeout(10*time.Millisecond))
	assert.True(t, l.TakeTokenWithTimeout(2*time.Second))
}
