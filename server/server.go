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

// Package server provides the Scriptorium server which is the main entry
// point of the system. The server is responsible for starting the HTTP API
// server and the profiling server.
package server

import (
	gosync "sync"

	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/httpapi"
	"github.com/scriptorium-team/scriptorium/server/profiling"
	"github.com/scriptorium-team/scriptorium/server/profiling/prometheus"
)

// Scriptorium is the corpus curation server. It receives document records
// over HTTP, stores them in the document store, and serves lookups and
// statistics over the collection.
type Scriptorium struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	httpServer      *httpapi.Server
	profilingServer *profiling.Server

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Scriptorium.
func New(conf *Config) (*Scriptorium, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(conf.Backend, conf.Mongo, metrics)
	if err != nil {
		return nil, err
	}

	httpServer := httpapi.NewServer(conf.HTTP, be)

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Scriptorium{
		conf:            conf,
		backend:         be,
		httpServer:      httpServer,
		profilingServer: profilingServer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the server by opening the HTTP port.
func (r *Scriptorium) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.profilingServer != nil {
		if err := r.profilingServer.Start(); err != nil {
			return err
		}
	}

	return r.httpServer.Start()
}

// Shutdown shuts down this Scriptorium server. The store connection is
// released on every exit path, including when it was never dialed.
func (r *Scriptorium) Shutdown(graceful bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.shutdown {
		return nil
	}

	r.httpServer.Shutdown(graceful)
	if r.profilingServer != nil {
		r.profilingServer.Shutdown(graceful)
	}

	if err := r.backend.Shutdown(); err != nil {
		return err
	}

	close(r.shutdownCh)
	r.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (r *Scriptorium) ShutdownCh() <-chan struct{} {
	return r.shutdownCh
}

// HTTPAddr returns the address of the HTTP API.
func (r *Scriptorium) HTTPAddr() string {
	return r.conf.HTTPAddr()
}
