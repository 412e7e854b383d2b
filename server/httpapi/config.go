/*
 * Copyright 2025 The Scriptorium Authors. All rights reserved.
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

package httpapi

import "fmt"

// Config is the configuration for creating an HTTP API Server instance.
type Config struct {
	// Port is the port to listen on for HTTP requests.
	Port int `yaml:"Port"`

	// AllowedOrigins is the list of origins the operator form may be served
	// from. An empty list allows all origins.
	AllowedOrigins []string `yaml:"AllowedOrigins"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf(
			`invalid argument %d for "--port" flag`,
			c.Port,
		)
	}

	return nil
}
