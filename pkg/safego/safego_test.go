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

package safego

import (
	"sync"
	"testing"

	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/stretchr/testify/assert"
)

func TestSafeGo(t *testing.T) {
	trace := "test"
	golocal.PutTraceID(trace)
	defer golocal.Clean()

	wg := &sync.WaitGroup{}
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		Go(func() {
			defer wg.Done()
			assert.Equal(t, trace, golocal.GetTraceID())
		})
	}
	wg.Wait()
}

func TestSafeGoPanic(t *testing.T) {
	done := make(chan struct{})
	Go(func() {
		defer close(done)
		panic("boom")
	})
	<-done
}
