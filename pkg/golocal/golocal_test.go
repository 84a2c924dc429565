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

package golocal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDIsGoroutineLocal(t *testing.T) {
	PutTraceID("main")
	defer Clean()

	group := sync.WaitGroup{}
	group.Add(1)
	go func() {
		defer group.Done()
		assert.Equal(t, "", GetTraceID())
		PutTraceID("child")
		assert.Equal(t, "child", GetTraceID())
		Clean()
		assert.Equal(t, "", GetTraceID())
	}()
	group.Wait()

	assert.Equal(t, "main", GetTraceID())
}

func TestPutGet(t *testing.T) {
	defer Clean()
	assert.Nil(t, Get("missing"))
	Put("k", 1)
	assert.Equal(t, 1, Get("k"))
	Clean()
	assert.Nil(t, Get("k"))
}
