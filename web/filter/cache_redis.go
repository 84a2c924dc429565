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
	"time"

	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/redis"
	"github.com/caiflower/tailor/web/protocol"
)

// RedisStore keeps serialized responses in redis under Prefix + full path.
// A redis failure is logged and counts as a miss.
type RedisStore struct {
	Client redis.RedisClient
	Prefix string
}

func NewRedisStore(client redis.RedisClient) *RedisStore {
	return &RedisStore{Client: client, Prefix: "response:"}
}

func (s *RedisStore) Get(key string) (*protocol.Response, bool) {
	data, err := s.Client.GetBytes(s.Prefix + key)
	if err != nil {
		if !redis.IsNil(err) {
			logger.Warn("Get cached response %s failed. Error: %s", key, err.Error())
		}
		return nil, false
	}
	return protocol.ParseResponse(data), true
}

func (s *RedisStore) Set(key string, resp *protocol.Response, ttl time.Duration) {
	if err := s.Client.SetPeriod(s.Prefix+key, resp.Bytes(), ttl); err != nil {
		logger.Warn("Cache response %s failed. Error: %s", key, err.Error())
	}
}

func (s *RedisStore) Delete(key string) {
	if err := s.Client.Del(s.Prefix + key); err != nil {
		logger.Warn("Drop cached response %s failed. Error: %s", key, err.Error())
	}
}
