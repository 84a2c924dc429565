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


package redis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/caiflower/tailor/global"
	"github.com/caiflower/tailor/pkg/golocal"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/tools"
	goredis "github.com/go-redis/redis/v8"
)

const (
	ClusterMode = "cluster"
)

type RedisClient interface {
	GetRedis() goredis.Cmdable
	SetPeriod(k string, v interface{}, period time.Duration) error
	Get(k string, v interface{}) error
	GetBytes(k string) ([]byte, error)
	GetString(k string) (string, error)
	Del(k ...string) error
	Exist(k ...string) (bool, error)
	Expire(k string, period time.Duration) (bool, error)
	GetKey(k string) string // get key with keyPrefix
	Close()
}

type Config struct {
	Mode         string        `yaml:"mode" json:"mode"`
	Addrs        []string      `yaml:"addrs" json:"addrs"`
	Password     string        `yaml:"password" json:"-"`
	DB           int           `yaml:"db" json:"db"`
	ReadTimeout  time.Duration `yaml:"readTimeout" default:"10s" json:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" default:"20s" json:"writeTimeout"`
	PoolSize     int           `yaml:"poolSize" json:"poolSize"`
	MinIdleConns int           `yaml:"minIdleConns" default:"20" json:"minIdleConns"`
	MaxConnAge   time.Duration `yaml:"maxConnAge" default:"80s" json:"maxConnAge"`
	KeyPrefix    string        `yaml:"keyPrefix" json:"keyPrefix"`
}

type redisClient struct {
	config        *Config
	client        *goredis.Client
	clusterClient *goredis.ClusterClient
}

// NewRedisClient connects and pings the servers, the client is closed with
// global.DefaultResourceManger.
func NewRedisClient(config Config) (RedisClient, error) {
	tools.DoTagFunc(&config, []func(reflect.StructField, reflect.Value){tools.SetDefaultValueIfNil})
	if len(config.Addrs) == 0 {
		return nil, errors.New("redis addrs is empty")
	}

	logger.Info("**** Create Redis Client **** \n Redis config: %v", tools.ToJson(config))
	c := &redisClient{
		config: &config,
	}
	switch config.Mode {
	case ClusterMode:
		c.clusterClient = goredis.NewClusterClient(&goredis.ClusterOptions{
			Addrs:        config.Addrs,
			Password:     config.Password,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			PoolSize:     config.PoolSize,
			MinIdleConns: config.MinIdleConns,
			MaxConnAge:   config.MaxConnAge,
		})
	default:
		c.client = goredis.NewClient(&goredis.Options{
			Addr:         config.Addrs[0],
			Password:     config.Password,
			DB:           config.DB,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			PoolSize:     config.PoolSize,
			MinIdleConns: config.MinIdleConns,
			MaxConnAge:   config.MaxConnAge,
		})
	}

	if err := c.GetRedis().Ping(getContext()).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("connect redis failed. Error: %w", err)
	}

	global.DefaultResourceManger.Add(c)
	return c, nil
}

// IsNil reports a missing key.
func IsNil(err error) bool {
	return errors.Is(err, goredis.Nil)
}

func encodingObject(v interface{}) interface{} {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Struct, reflect.Ptr, reflect.Map:
		bytes, _ := tools.Marshal(v)
		return string(bytes)
	default:
		return v
	}
}

func (c *redisClient) Close() {
	var err error
	switch c.config.Mode {
	case ClusterMode:
		err = c.clusterClient.Close()
	default:
		err = c.client.Close()
	}

	if err != nil {
		logger.Error("close redis client failed. err: %s", err.Error())
	}
}

func (c *redisClient) GetRedis() goredis.Cmdable {
	switch c.config.Mode {
	case ClusterMode:
		return c.clusterClient
	default:
		return c.client
	}
}

func (c *redisClient) SetPeriod(k string, v interface{}, period time.Duration) error {
	return c.GetRedis().Set(getContext(), c.GetKey(k), encodingObject(v), period).Err()
}

func (c *redisClient) Get(k string, v interface{}) error {
	if bytes, err := c.GetBytes(k); err != nil {
		return err
	} else {
		return tools.Unmarshal(bytes, v)
	}
}

func (c *redisClient) GetBytes(k string) ([]byte, error) {
	return c.GetRedis().Get(getContext(), c.GetKey(k)).Bytes()
}

func (c *redisClient) GetString(k string) (string, error) {
	return c.GetRedis().Get(getContext(), c.GetKey(k)).Result()
}

func (c *redisClient) Del(k ...string) error {
	var keys []string
	for _, t := range k {
		keys = append(keys, c.GetKey(t))
	}
	return c.GetRedis().Del(getContext(), keys...).Err()
}

func (c *redisClient) Exist(k ...string) (bool, error) {
	var keys []string
	for _, t := range k {
		keys = append(keys, c.GetKey(t))
	}
	if v, err := c.GetRedis().Exists(getContext(), keys...).Result(); err != nil {
		return false, err
	} else {
		return v == int64(len(keys)), nil
	}
}

func (c *redisClient) Expire(k string, period time.Duration) (bool, error) {
	return c.GetRedis().Expire(getContext(), c.GetKey(k), period).Result()
}

func (c *redisClient) GetKey(origin string) string {
	if c.config.KeyPrefix != "" {
		return c.config.KeyPrefix + origin
	}
	return origin
}

type traceIDKey struct{}

// getContext carries the trace id of the calling goroutine.
func getContext() context.Context {
	return context.WithValue(context.Background(), traceIDKey{}, golocal.GetTraceID())
}
