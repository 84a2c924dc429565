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


// Package redistest runs an in-process server speaking enough of the redis
// protocol for the string commands the client uses.
package redistest

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	expireAt time.Time
}

type Server struct {
	listener net.Listener

	mu   sync.Mutex
	data map[string]entry
	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

// NewServer listens on a random local port.
func NewServer() (*Server, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{listener: l, data: make(map[string]entry), done: make(chan struct{})}
	s.wg.Add(1)
	go s.accept()
	return s, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.listener.Close()
	})
	s.wg.Wait()
}

// Keys is the number of live keys.
func (s *Server) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.data {
		if _, ok := s.lookup(k); ok {
			n++
		}
	}
	return n
}

func (s *Server) accept() {
	defer s.wg.Done()
	var conns sync.WaitGroup
	defer conns.Wait()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		conns.Add(1)
		go func() {
			defer conns.Done()
			s.serve(conn)
		}()
	}
}

func (s *Server) serve(conn net.Conn) {
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		// unblock the reader once the server is closed
		select {
		case <-s.done:
			_ = conn.Close()
		case <-finished:
		}
	}()
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		s.exec(w, args)
		if w.Flush() != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return strings.Fields(line), nil
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err = readLine(r)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, "$") {
			return nil, errors.New("bulk string expected")
		}
		size, err := strconv.Atoi(line[1:])
		if err != nil || size < 0 {
			return nil, errors.New("bad bulk length")
		}
		buf := make([]byte, size+2)
		if _, err = io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Server) lookup(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expireAt.IsZero() && !time.Now().Before(e.expireAt) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *Server) exec(w *bufio.Writer, args []string) {
	if len(args) == 0 {
		writeError(w, "empty command")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		_, _ = w.WriteString("+PONG\r\n")
	case "GET":
		if len(args) != 2 {
			writeError(w, "wrong number of arguments for 'get'")
			return
		}
		if e, ok := s.lookup(args[1]); ok {
			writeBulk(w, e.value)
		} else {
			_, _ = w.WriteString("$-1\r\n")
		}
	case "SET":
		if len(args) < 3 {
			writeError(w, "wrong number of arguments for 'set'")
			return
		}
		e := entry{value: []byte(args[2])}
		for i := 3; i+1 < len(args); i += 2 {
			n, err := strconv.ParseInt(args[i+1], 10, 64)
			if err != nil {
				writeError(w, "value is not an integer")
				return
			}
			switch strings.ToUpper(args[i]) {
			case "EX":
				e.expireAt = time.Now().Add(time.Duration(n) * time.Second)
			case "PX":
				e.expireAt = time.Now().Add(time.Duration(n) * time.Millisecond)
			}
		}
		s.data[args[1]] = e
		_, _ = w.WriteString("+OK\r\n")
	case "DEL", "EXISTS":
		n := 0
		for _, k := range args[1:] {
			if _, ok := s.lookup(k); ok {
				n++
				if strings.EqualFold(args[0], "DEL") {
					delete(s.data, k)
				}
			}
		}
		writeInt(w, n)
	case "EXPIRE", "PEXPIRE":
		if len(args) != 3 {
			writeError(w, "wrong number of arguments for 'expire'")
			return
		}
		n, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			writeError(w, "value is not an integer")
			return
		}
		e, ok := s.lookup(args[1])
		if !ok {
			writeInt(w, 0)
			return
		}
		unit := time.Second
		if strings.EqualFold(args[0], "PEXPIRE") {
			unit = time.Millisecond
		}
		e.expireAt = time.Now().Add(time.Duration(n) * unit)
		s.data[args[1]] = e
		writeInt(w, 1)
	default:
		writeError(w, "unknown command '"+args[0]+"'")
	}
}

func writeBulk(w *bufio.Writer, b []byte) {
	_, _ = w.WriteString("$" + strconv.Itoa(len(b)) + "\r\n")
	_, _ = w.Write(b)
	_, _ = w.WriteString("\r\n")
}

func writeInt(w *bufio.Writer, n int) {
	_, _ = w.WriteString(":" + strconv.Itoa(n) + "\r\n")
}

func writeError(w *bufio.Writer, msg string) {
	_, _ = w.WriteString("-ERR " + msg + "\r\n")
}
