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

package global

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/caiflower/tailor/pkg/logger"
	"golang.org/x/exp/slices"
)

// DefaultResourceManger
// 用于守护进程的优雅退出，如HTTP Server

type Resource interface {
	Close()
}

type DaemonResource interface {
	Resource
	Name() string
	Start() error
}

type packageResource struct {
	resource Resource
	daemon   DaemonResource
	order    int
}

func (p *packageResource) Name() string {
	if p.daemon != nil {
		return p.daemon.Name()
	}
	return "packageResource"
}

func (p *packageResource) Close() {
	if p.daemon != nil {
		p.daemon.Close()
	} else {
		p.resource.Close()
	}
}

func (p *packageResource) Start() error {
	if p.daemon != nil {
		return p.daemon.Start()
	}
	return nil
}

type resourceManger struct {
	lock      sync.Mutex
	resources []*packageResource
	running   bool
}

var DefaultResourceManger = NewResourceManger()

func NewResourceManger() *resourceManger {
	return &resourceManger{}
}

func (rm *resourceManger) contains(v interface{}) bool {
	for _, r := range rm.resources {
		if (r.daemon != nil && r.daemon == v) || (r.resource != nil && r.resource == v) {
			return true
		}
	}
	return false
}

// Add registers a resource that is never started and is closed before
// every daemon.
func (rm *resourceManger) Add(resource Resource) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if rm.contains(resource) {
		return
	}
	rm.resources = append(rm.resources, &packageResource{resource: resource, order: 1000000000})
}

// AddDaemonWithOrder registers a daemon. Higher orders start first and
// close first.
func (rm *resourceManger) AddDaemonWithOrder(daemon DaemonResource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if rm.contains(daemon) {
		return
	}
	rm.resources = append(rm.resources, &packageResource{daemon: daemon, order: order})
}

func (rm *resourceManger) AddDaemon(daemon DaemonResource) {
	rm.AddDaemonWithOrder(daemon, 100000)
}

// Start starts every daemon in order. A daemon that fails to start stops
// the ones already started.
func (rm *resourceManger) Start() error {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if rm.running {
		return nil
	}

	slices.SortStableFunc(rm.resources, func(a, b *packageResource) bool {
		return a.order > b.order
	})

	for i, resource := range rm.resources {
		if err := resource.Start(); err != nil {
			logger.Error("Start '%s' resource failed. Error: %s", resource.Name(), err.Error())
			for j := i - 1; j >= 0; j-- {
				rm.resources[j].Close()
			}
			return err
		}
	}
	rm.running = true
	return nil
}

// Close closes everything in start order.
func (rm *resourceManger) Close() {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if !rm.running {
		return
	}
	for _, resource := range rm.resources {
		resource.Close()
	}
	rm.running = false
}

// Signal starts the resources and blocks until the process is asked to
// stop, then closes them.
func (rm *resourceManger) Signal() {
	if err := rm.Start(); err != nil {
		logger.Fatal("Signal failed. Error: %s", err.Error())
		return
	}

	sign := make(chan os.Signal, 1)
	signal.Notify(sign, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sign)

	s := <-sign
	logger.Info("Accept signal %s. The application is shutting down...", s)
	rm.Close()
}
