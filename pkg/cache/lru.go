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
	"sync"
)

// LRUCache 容量固定的LRU, 超出容量时淘汰最久未访问的key
type LRUCache[K comparable, T any] struct {
	capacity int
	itemMap  map[K]*node[K, T]
	lock     sync.Mutex
	head     *node[K, T]
	tail     *node[K, T]
	zero     T
}

type node[K comparable, T any] struct {
	key  K
	item T
	prev *node[K, T]
	next *node[K, T]
}

func NewLRUCache[K comparable, T any](capacity int) *LRUCache[K, T] {
	if capacity <= 0 {
		panic("invalid lru cache capacity")
	}
	return &LRUCache[K, T]{
		capacity: capacity,
		itemMap:  make(map[K]*node[K, T]),
	}
}

func (c *LRUCache[K, T]) Get(key K) (T, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if v, ok := c.itemMap[key]; ok {
		c.moveToHead(v)
		return v.item, true
	}
	return c.zero, false
}

func (c *LRUCache[K, T]) Put(key K, value T) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.put(key, value)
}

// GetOrPut 不存在时用newFn创建并放入
func (c *LRUCache[K, T]) GetOrPut(key K, newFn func() T) T {
	c.lock.Lock()
	defer c.lock.Unlock()

	if v, ok := c.itemMap[key]; ok {
		c.moveToHead(v)
		return v.item
	}
	value := newFn()
	c.put(key, value)
	return value
}

func (c *LRUCache[K, T]) put(key K, value T) {
	n, ok := c.itemMap[key]
	if !ok {
		n = &node[K, T]{key: key}
	}
	n.item = value

	c.moveToHead(n)
	c.itemMap[key] = n

	if len(c.itemMap) > c.capacity {
		c.removeTail()
	}
}

func (c *LRUCache[K, T]) removeTail() {
	key := c.tail.key
	if c.tail.prev == nil {
		c.head = nil
		c.tail = nil
	} else {
		c.tail.prev.next = nil
		c.tail = c.tail.prev
	}
	delete(c.itemMap, key)
}

func (c *LRUCache[K, T]) moveToHead(n *node[K, T]) {
	if c.head == n {
		return
	}

	// unlink
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n == c.tail {
		c.tail = n.prev
	}

	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRUCache[K, T]) Size() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.itemMap)
}
