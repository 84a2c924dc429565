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

package e

import (
	"fmt"
	"runtime/debug"

	"github.com/caiflower/tailor/pkg/logger"
)

// OnError must be deferred directly. It logs a recovered panic with the
// stack and hands the panic value to fns.
func OnError(txt string, fns ...func(r interface{})) {
	if r := recover(); r != nil {
		logger.Error("Got a runtime error %s. %s\n%s", txt, fmt.Sprint(r), string(debug.Stack()))
		for _, fn := range fns {
			fn(r)
		}
	}
}
