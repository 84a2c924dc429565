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

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalCache(t *testing.T) {
	c := NewLocalCache(0, 0)
	c.Set("forever", "v1", 0)
	c.Set("short", "v2", 20*time.Millisecond)

	v, ok := c.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 2, c.Len())

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok)

	c.Delete("forever")
	_, ok = c.Get("forever")
	assert.False(t, ok)
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[string, int](2)
	c.Put("key1", 1)
	c.Put("key2", 2)
	c.Get("key1")
	c.Put("key3", 3)

	_, ok := c.Get("key2")
	assert.False(t, ok)
	v, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Size())

	c.Put("key1", 10)
	c.Put("key4", 4)
	_, ok = c.Get("key3")
	assert.False(t, ok)
	v, _ = c.Get("key1")
	assert.Equal(t, 10, v)
}

func TestLRUCacheCapacityOne(t *testing.T) {
	c := NewLRUCache[int, string](1)
	c.Put(1, "a")
	c.Put(2, "b")
	_, ok := c.Get(1)
	assert.False(t, ok)
	v, _ := c.Get(2)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheGetOrPutConcurrent(t *testing.T) {
	c := NewLRUCache[string, *int](16)
	created := 0
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.GetOrPut("k"+strconv.Itoa(i%4), func() *int {
				mu.Lock()
				created++
				mu.Unlock()
				v := i
				return &v
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, created)
	assert.Equal(t, 4, c.Size())
}
