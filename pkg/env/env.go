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

package env

import (
	"net"
	"os"
	"sync"
)

var (
	localhostIP string
	ipOnce      sync.Once
)

func findLocalHostIP() {
	localhostIP = "127.0.0.1"
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}

	for _, address := range addrs {
		// 检查ip地址判断是否回环地址
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				localhostIP = ipnet.IP.String()
				return
			}
		}
	}
}

// GetLocalHostIP 返回第一个非回环的ipv4地址, 没有时返回127.0.0.1
func GetLocalHostIP() string {
	ipOnce.Do(findLocalHostIP)
	return localhostIP
}

// GetHostname 获取失败时返回本机ip
func GetHostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return GetLocalHostIP()
	}
	return name
}
