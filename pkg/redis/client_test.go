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
	"testing"
	"time"

	"github.com/caiflower/tailor/pkg/redis/redistest"
	"github.com/stretchr/testify/assert"
)

type testObject struct {
	Name string
	Age  int
}

func newTestClient(t *testing.T, config Config) (RedisClient, *redistest.Server) {
	server, err := redistest.NewServer()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(server.Close)

	config.Addrs = []string{server.Addr()}
	config.MinIdleConns = 1
	client, err := NewRedisClient(config)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(client.Close)
	return client, server
}

func TestRedisClient(t *testing.T) {
	client, server := newTestClient(t, Config{KeyPrefix: "shop:"})
	assert.Equal(t, "shop:hat", client.GetKey("hat"))

	assert.NoError(t, client.SetPeriod("test", "test", 0))
	v, err := client.GetString("test")
	assert.NoError(t, err)
	assert.Equal(t, "test", v)

	assert.NoError(t, client.SetPeriod("object", &testObject{Name: "top hat", Age: 1}, time.Minute))
	object := &testObject{}
	assert.NoError(t, client.Get("object", object))
	assert.Equal(t, testObject{Name: "top hat", Age: 1}, *object)

	ok, err := client.Exist("test", "object")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, server.Keys())

	assert.NoError(t, client.Del("test", "object"))
	_, err = client.GetString("test")
	assert.True(t, IsNil(err))
	ok, err = client.Exist("test")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClientExpire(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	assert.NoError(t, client.SetPeriod("short", []byte("raw"), 50*time.Millisecond))
	data, err := client.GetBytes("short")
	assert.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	time.Sleep(100 * time.Millisecond)
	_, err = client.GetBytes("short")
	assert.True(t, IsNil(err))

	assert.NoError(t, client.SetPeriod("long", "v", 0))
	ok, err := client.Expire("long", 50*time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = client.Expire("missing", time.Second)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClientFailed(t *testing.T) {
	_, err := NewRedisClient(Config{})
	assert.Error(t, err)

	server, err := redistest.NewServer()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	addr := server.Addr()
	server.Close()

	_, err = NewRedisClient(Config{Addrs: []string{addr}, ReadTimeout: time.Second, MinIdleConns: 1})
	assert.Error(t, err)
}
