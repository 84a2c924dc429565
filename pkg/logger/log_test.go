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

package logger

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggerLevelAndTrace(t *testing.T) {
	out := &syncBuffer{}
	logger := newLoggerHandler(&Config{
		Level:       WarnLevel,
		EnableTrace: "True",
		Output:      out,
	})

	golocal.PutTraceID("lt-1")
	defer golocal.Clean()
	logger.Debug("debug %d", 1)
	logger.Info("info %d", 1)
	logger.Warn("warn %d", 1)
	logger.Error("error %s", "x")
	logger.Close()

	text := out.String()
	assert.NotContains(t, text, "debug 1")
	assert.NotContains(t, text, "info 1")
	assert.Contains(t, text, "[WARN] [lt-1] log_test.go:")
	assert.Contains(t, text, "- warn 1")
	assert.Contains(t, text, "- error x")
}

func TestLoggerConcurrent(t *testing.T) {
	out := &syncBuffer{}
	logger := newLoggerHandler(&Config{
		Level:       TraceLevel,
		EnableTrace: "False",
		AppenderNum: 4,
		Output:      out,
	})
	group := sync.WaitGroup{}

	for i := 1; i <= 10; i++ {
		group.Add(1)
		go func(i int) {
			defer group.Done()
			golocal.PutTraceID("lt-" + strconv.Itoa(i))
			defer golocal.Clean()
			logger.Trace("trace" + strconv.Itoa(i))
			logger.Fatal("fatal" + strconv.Itoa(i))
		}(i)
	}

	group.Wait()
	logger.Close()

	text := out.String()
	assert.Equal(t, 20, strings.Count(text, "\n"))
	assert.NotContains(t, text, "[lt-")

	logger.Info("late")
	assert.NotContains(t, out.String(), "late")
}
