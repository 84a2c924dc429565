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

package filter

import (
	"errors"
	"strconv"
	"time"

	"github.com/caiflower/tailor/pkg/env"
	"github.com/caiflower/tailor/web/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

type HttpMetric struct {
	httpRequestTotal     *prometheus.CounterVec
	httpRequestTimeTotal *prometheus.CounterVec
	costHistogram        prometheus.Histogram
}

// NewHttpMetric registers the collectors on registerer, the default
// registerer when nil. Collectors that are already registered are reused.
func NewHttpMetric(registerer prometheus.Registerer) *HttpMetric {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"ip": env.GetLocalHostIP()}

	buckets := []float64{20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}
	metric := &HttpMetric{
		httpRequestTimeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_time_total", Help: "http_request_time_total counter", ConstLabels: constLabels}, []string{"web", "code", "method", "route"}),
		httpRequestTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_total", Help: "http_request_total counter", ConstLabels: constLabels}, []string{"web", "code", "method", "route"}),
		costHistogram:        prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_request_histogram", Help: "http_request_histogram", Buckets: buckets, ConstLabels: constLabels}),
	}

	metric.httpRequestTimeTotal = register(registerer, metric.httpRequestTimeTotal)
	metric.httpRequestTotal = register(registerer, metric.httpRequestTotal)
	metric.costHistogram = register(registerer, metric.costHistogram)
	return metric
}

func register[T prometheus.Collector](registerer prometheus.Registerer, c T) T {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *HttpMetric) SaveMetric(web string, code string, method, route string, cost int64) {
	m.httpRequestTotal.WithLabelValues(web, code, method, route).Inc()
	m.httpRequestTimeTotal.WithLabelValues(web, code, method, route).Add(float64(cost))
	m.costHistogram.Observe(float64(cost))
}

// MetricFilter records count and cost in milliseconds per route pattern
// and status code.
type MetricFilter struct {
	Name   string
	Metric *HttpMetric
}

func NewMetricFilter(name string, metric *HttpMetric) *MetricFilter {
	return &MetricFilter{Name: name, Metric: metric}
}

func (f *MetricFilter) PreProcess(req *protocol.Request, resp *protocol.Response, next PreCallback) {
	if _, ok := req.Get(protocol.AttrBeginTime); !ok {
		req.Put(protocol.AttrBeginTime, time.Now())
	}
	next(req, resp, false)
}

// PostProcess counts a streamed response once, on its head.
func (f *MetricFilter) PostProcess(req *protocol.Request, resp *protocol.Response, next protocol.ResponseCallback) {
	if resp.BodyOnly {
		next(resp)
		return
	}
	var cost int64
	if v, ok := req.Get(protocol.AttrBeginTime); ok {
		cost = time.Since(v.(time.Time)).Milliseconds()
	}
	route := req.GetString(protocol.AttrRoutePattern)
	if route == "" {
		route = req.Path
	}
	f.Metric.SaveMetric(f.Name, strconv.Itoa(resp.Status.Code), req.Method, route, cost)
	next(resp)
}
