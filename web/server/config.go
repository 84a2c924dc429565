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
	"reflect"
	"time"

	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/protocol"
)

type Option func(*Config) *Config

type Config struct {
	Name            string        `yaml:"name" default:"default"`
	Addr            string        `yaml:"addr" default:":8080"`
	ReadTimeout     time.Duration `yaml:"readTimeout" default:"20s"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" default:"35s"`
	HandleTimeout   time.Duration `yaml:"handleTimeout" default:"60s"` // 请求总处理超时时间, 超时关闭连接
	MaxRequestBytes int           `yaml:"maxRequestBytes" default:"10485760"`
	EnableMetrics   bool          `yaml:"enableMetrics"`
	MetricsAddr     string        `yaml:"metricsAddr" default:":9090"`
	MetricsPath     string        `yaml:"metricsPath" default:"/metrics"`

	// nil dispatches to router.Shared()
	Handler protocol.RequestHandler `yaml:"-"`
}

func NewConfig(opts ...Option) *Config {
	config := &Config{}
	tools.DoTagFunc(config, []func(reflect.StructField, reflect.Value){tools.SetDefaultValueIfNil})
	for _, opt := range opts {
		config = opt(config)
	}
	return config
}

// LoadConfig reads the yaml file, applies the defaults and then opts.
func LoadConfig(filename string, opts ...Option) (*Config, error) {
	config := &Config{}
	if err := tools.LoadConfig(filename, config); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		config = opt(config)
	}
	return config, nil
}

func WithName(name string) Option {
	return func(config *Config) *Config {
		config.Name = name
		return config
	}
}

func WithAddr(addr string) Option {
	return func(config *Config) *Config {
		config.Addr = addr
		return config
	}
}

func WithReadTimeout(readTimeout time.Duration) Option {
	return func(config *Config) *Config {
		config.ReadTimeout = readTimeout
		return config
	}
}

func WithWriteTimeout(writeTimeout time.Duration) Option {
	return func(config *Config) *Config {
		config.WriteTimeout = writeTimeout
		return config
	}
}

func WithHandleTimeout(handleTimeout time.Duration) Option {
	return func(config *Config) *Config {
		config.HandleTimeout = handleTimeout
		return config
	}
}

func WithMaxRequestBytes(max int) Option {
	return func(config *Config) *Config {
		config.MaxRequestBytes = max
		return config
	}
}

func WithMetrics(addr, path string) Option {
	return func(config *Config) *Config {
		config.EnableMetrics = true
		config.MetricsAddr = addr
		config.MetricsPath = path
		return config
	}
}

func WithHandler(handler protocol.RequestHandler) Option {
	return func(config *Config) *Config {
		config.Handler = handler
		return config
	}
}
