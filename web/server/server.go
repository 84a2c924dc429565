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

package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	crash "github.com/caiflower/tailor/pkg/e"
	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/safego"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/common/e"
	"github.com/caiflower/tailor/web/common/resp"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/caiflower/tailor/web/router"
	"github.com/prometheus/client_golang/prometheus"
)

var errTooLarge = errors.New("request too large")

// HttpServer reads one request per connection, hands it to the handler and
// writes every response the handler calls back with. The connection is
// closed after a response with a defined length, after the empty fragment
// that ends a stream, or when HandleTimeout passes.
type HttpServer struct {
	cfg      Config
	listener net.Listener
	metrics  *metricsServer

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	closing chan struct{}
	grace   time.Duration
}

func NewHttpServer(config Config) *HttpServer {
	tools.DoTagFunc(&config, []func(reflect.StructField, reflect.Value){tools.SetDefaultValueIfNil})

	return &HttpServer{
		cfg:     config,
		closing: make(chan struct{}),
		grace:   5 * time.Second,
	}
}

func (s *HttpServer) Name() string {
	return fmt.Sprintf("HTTP_SERVER:%s", s.cfg.Name)
}

// Addr is the bound listener address, nil before Start.
func (s *HttpServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *HttpServer) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		logger.Error("Listen on %s failed. Error: %s", s.cfg.Addr, err.Error())
		return err
	}
	s.listener = listener

	if s.cfg.EnableMetrics {
		s.metrics = newMetricsServer(s.cfg.MetricsAddr, s.cfg.MetricsPath, prometheus.DefaultGatherer)
		s.metrics.start()
	}

	logger.Info(
		"\n***************************** http server startup ***********************************************\n"+
			"************* web service [name:%s] listening on %s *********\n"+
			"*************************************************************************************************", s.cfg.Name, listener.Addr().String())

	go s.accept()
	return nil
}

func (s *HttpServer) Close() {
	logger.Info("      **** http server shutdown ****")

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.metrics != nil {
		s.metrics.close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	// 5秒超时
	select {
	case <-done:
		logger.Info(" **** http server gracefully shutdown ****")
	case <-time.After(s.grace):
		logger.Warn(" **** http server shutdown timeout, closing connections ****")
		close(s.closing)
		<-done
	}
}

func (s *HttpServer) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isClosed() {
				logger.Error("Accept failed. Error: %s", err.Error())
			}
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		s.mu.Unlock()

		safego.Go(func() {
			s.serve(conn)
		})
	}
}

func (s *HttpServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *HttpServer) handler() protocol.RequestHandler {
	if s.cfg.Handler != nil {
		return s.cfg.Handler
	}
	return router.Shared().Handle
}

func (s *HttpServer) serve(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.wg.Done()
	}()

	w := newConnWriter(conn, s.cfg.WriteTimeout)

	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}
	data, err := readRequest(bufio.NewReader(conn), s.cfg.MaxRequestBytes)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			response := protocol.NewResponse()
			resp.WriteError(response, e.NewApiError(e.TooLarge, "request exceeds "+strconv.Itoa(s.cfg.MaxRequestBytes)+" bytes", nil))
			w.write(response)
		} else if !errors.Is(err, io.EOF) {
			logger.Debug("Read request from %s failed. Error: %s", conn.RemoteAddr().String(), err.Error())
		}
		return
	}

	req := protocol.ParseRequest(conn.RemoteAddr().String(), data)
	go s.dispatch(req, w.write)

	var timeout <-chan time.Time
	if s.cfg.HandleTimeout > 0 {
		timer := time.NewTimer(s.cfg.HandleTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-w.done:
	case <-timeout:
		logger.Warn("%s %s not finished after %s, closing connection", req.Method, req.Path, s.cfg.HandleTimeout)
		w.abort(e.NewApiError(e.Timeout, "request not handled within "+s.cfg.HandleTimeout.String(), nil))
	case <-s.closing:
		w.abort(e.NewApiError(e.Unavailable, "server is shutting down", nil))
	}
}

func (s *HttpServer) dispatch(req *protocol.Request, callback protocol.ResponseCallback) {
	defer golocal.Clean()
	defer crash.OnError(fmt.Sprintf("while handling %s %s", req.Method, req.Path), func(r interface{}) {
		response := protocol.NewResponse()
		resp.WriteError(response, e.NewInternalError(fmt.Errorf("%v", r)))
		callback(response)
	})

	s.handler()(req, callback)
}

// connWriter drops every response once the exchange is over.
type connWriter struct {
	conn    net.Conn
	timeout time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

func newConnWriter(conn net.Conn, timeout time.Duration) *connWriter {
	return &connWriter{conn: conn, timeout: timeout, done: make(chan struct{})}
}

func (w *connWriter) write(r *protocol.Response) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeLocked(r)
}

func (w *connWriter) writeLocked(r *protocol.Response) {
	if w.closed {
		return
	}

	if w.timeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	}
	if _, err := w.conn.Write(r.Bytes()); err != nil {
		logger.Debug("Write response to %s failed. Error: %s", w.conn.RemoteAddr().String(), err.Error())
		w.close()
		return
	}
	w.started = true

	if r.BodyOnly {
		if len(r.Body()) == 0 {
			w.close()
		}
	} else if r.HasDefinedLength {
		w.close()
	}
}

// abort ends the exchange, a client that got nothing yet gets err.
func (w *connWriter) abort(err e.ApiError) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed && !w.started {
		response := protocol.NewResponse()
		resp.WriteError(response, err)
		w.writeLocked(response)
	}
	w.close()
}

func (w *connWriter) close() {
	if !w.closed {
		w.closed = true
		close(w.done)
	}
}

var crlf = []byte("\r\n")

// maxUnboundedRequest caps a request when MaxRequestBytes is not set.
const maxUnboundedRequest = 1 << 30

// readRequest reads the head up to the empty line and then as many body
// bytes as Content-Length says. A head cut short by EOF is returned as is.
func readRequest(r *bufio.Reader, max int) ([]byte, error) {
	var (
		head          bytes.Buffer
		line          []byte
		contentLength int
	)

	for {
		frag, err := r.ReadSlice('\n')
		head.Write(frag)
		if max > 0 && head.Len() > max {
			return nil, errTooLarge
		}
		line = append(line, frag...)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && head.Len() > 0 {
				return head.Bytes(), nil
			}
			return nil, err
		}

		if bytes.Equal(line, crlf) {
			break
		}
		if n, ok := parseContentLength(string(line)); ok {
			contentLength = n
		}
		line = line[:0]
	}

	if contentLength == 0 {
		return head.Bytes(), nil
	}
	limit := max
	if limit <= 0 {
		limit = maxUnboundedRequest
	}
	if contentLength > limit-head.Len() {
		return nil, errTooLarge
	}

	data := make([]byte, head.Len()+contentLength)
	copy(data, head.Bytes())
	if _, err := io.ReadFull(r, data[head.Len():]); err != nil {
		return nil, err
	}
	return data, nil
}

func parseContentLength(line string) (int, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(key), protocol.HeaderContentLength) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
