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
	"strconv"
)

// Params is an ordered multimap of request parameters. Keys keep the order
// of their first appearance and every value added for a key is kept.
type Params struct {
	keys   []string
	values map[string][]string
}

func NewParams() *Params {
	return &Params{values: make(map[string][]string)}
}

// Add appends value to the list of key.
func (p *Params) Add(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append(p.values[key], value)
}

// Set replaces every value of key with value.
func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = []string{value}
}

func (p *Params) Del(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Lookup returns the first value of key.
func (p *Params) Lookup(key string) (string, bool) {
	values := p.values[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Get returns the first value of key, or "" when it is missing.
func (p *Params) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

func (p *Params) GetAll(key string) []string {
	values := p.values[key]
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

// LookupInt parses the first value of key as an int.
func (p *Params) LookupInt(key string) (int, bool) {
	v, ok := p.Lookup(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// GetInt returns 0 when the value is missing or not an integer.
func (p *Params) GetInt(key string) int {
	i, _ := p.LookupInt(key)
	return i
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Merge appends every pair of other, in order.
func (p *Params) Merge(other *Params) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		for _, value := range other.values[key] {
			p.Add(key, value)
		}
	}
}

// Slice picks the first value of each present key.
func (p *Params) Slice(keys ...string) map[string]string {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := p.Lookup(key); ok {
			result[key] = v
		}
	}
	return result
}

func (p *Params) Map() map[string][]string {
	result := make(map[string][]string, len(p.keys))
	for _, key := range p.keys {
		result[key] = append([]string(nil), p.values[key]...)
	}
	return result
}

func (p *Params) Clone() *Params {
	c := NewParams()
	c.Merge(p)
	return c
}
