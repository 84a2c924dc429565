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

package config

import (
	"path/filepath"
	"time"

	"github.com/caiflower/tailor/global/env"
	"github.com/caiflower/tailor/pkg/logger"
	"github.com/caiflower/tailor/pkg/redis"
	"github.com/caiflower/tailor/pkg/tools"
	"github.com/caiflower/tailor/web/filter"
	"github.com/caiflower/tailor/web/server"
)

type DefaultConfig struct {
	LoggerConfig    logger.Config          `yaml:"logger"`
	ServerConfig    server.Config          `yaml:"server"`
	RateLimitConfig filter.RateLimitConfig `yaml:"rateLimit"`
	StaticPath      string                 `yaml:"staticPath" default:"./public"`
	CacheTTL        time.Duration          `yaml:"cacheTTL" default:"10s"`
	RedisConfig     redis.Config           `yaml:"redis"` // response cache is shared through redis when addrs is set
}

func LoadDefaultConfig(v *DefaultConfig) (err error) {
	err = tools.LoadConfig(filepath.Join(env.ConfigPath, "default.yaml"), v)
	return
}
