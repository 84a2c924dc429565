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
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/caiflower/tailor/pkg/tools"
)

type Appender interface {
	write(data data)
	close()
}

type logAppender struct {
	timeFormat  string
	enableTrace bool
	enableColor bool

	bufPool   sync.Pool
	log       *log.Logger
	writeLock sync.Mutex
	logFile   *os.File
}

func newLogAppender(output io.Writer, timeFormat, path, fileName string, enableTrace, enableColor bool) Appender {
	appender := &logAppender{
		timeFormat: timeFormat,
		bufPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			}},
		enableTrace: enableTrace,
		enableColor: enableColor,
		log:         new(log.Logger),
	}

	switch {
	case output != nil:
		appender.log.SetOutput(output)
	case path == "":
		appender.log.SetOutput(os.Stdout)
	default:
		// 创建目录
		if err := tools.Mkdir(path, 0755); err != nil {
			panic(fmt.Sprintf("[logger appender] mkdir err: %s\n", err))
		}
		logfile, err := os.OpenFile(path+"/"+fileName, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("[logger appender] open logfile err: %s\n", err))
		}
		appender.logFile = logfile
		appender.log.SetOutput(logfile)
	}

	return appender
}

func (appender *logAppender) write(data data) {
	defer onError("[logger appender]")

	level := data.level
	if appender.enableColor {
		level = getLevelColor(level)
	}
	buf := appender.bufPool.Get().(*strings.Builder)
	buf.Reset()
	buf.WriteString(data.timestamp.Format(appender.timeFormat))
	buf.WriteString(" [")
	buf.WriteString(level)
	buf.WriteString("] ")
	if appender.enableTrace && data.traceID != "" {
		buf.WriteString("[")
		buf.WriteString(data.traceID)
		buf.WriteString("] ")
	}
	buf.WriteString(data.position)
	buf.WriteString(" - ")
	buf.WriteString(data.content)

	// 输出日志
	appender.writeLock.Lock()
	defer func() {
		appender.writeLock.Unlock()
		buf.Reset()
		appender.bufPool.Put(buf)
	}()

	appender.log.Println(buf.String())
}

func (appender *logAppender) close() {
	appender.writeLock.Lock()
	defer appender.writeLock.Unlock()
	if appender.logFile != nil {
		if err := appender.logFile.Close(); err != nil {
			fmt.Printf("[logger appender] close logfile err: %s\n", err)
		}
		appender.logFile = nil
	}
}

func onError(txt string) {
	if r := recover(); r != nil {
		fmt.Printf("[ERROR] - Got a runtime error %s. %s\n%s", txt, r, string(debug.Stack()))
	}
}
