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
	"github.com/caiflower/tailor/pkg/e"
	"github.com/caiflower/tailor/pkg/golocal"
)

// Go runs fn on a new goroutine that carries the caller's trace id. A panic
// in fn is logged instead of crashing the process.
func Go(fn func()) {
	traceID := golocal.GetTraceID()
	go func() {
		if traceID != "" {
			golocal.PutTraceID(traceID)
		}
		defer golocal.Clean()
		defer e.OnError("safeGo")

		fn()
	}()
}
