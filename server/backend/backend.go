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

// Package backend provides the backend implementation of Scriptorium. This
// package is responsible for managing the database and other resources
// required to run the server.
package backend

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/scriptorium-team/scriptorium/server/backend/database"
	memdb "github.com/scriptorium-team/scriptorium/server/backend/database/memory"
	"github.com/scriptorium-team/scriptorium/server/backend/database/mongo"
	"github.com/scriptorium-team/scriptorium/server/logging"
	"github.com/scriptorium-team/scriptorium/server/profiling/prometheus"
)

// Backend manages the resources of the server: the database connection and
// the metrics. The database is dialed lazily on first use; concurrent first
// uses share a single dial.
type Backend struct {
	Config *Config

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics

	mongoConf *mongo.Config

	group singleflight.Group
	mu    sync.RWMutex
	db    database.Database
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	mongoConf *mongo.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	hostname := conf.Hostname
	if hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("os.Hostname: %w", err)
		}
		conf.Hostname = hostname
	}

	dbInfo := "memory"
	if mongoConf != nil {
		dbInfo = mongoConf.ConnectionURI
	}
	logging.DefaultLogger().Infof("backend created: db: %s", dbInfo)

	return &Backend{
		Config:    conf,
		Metrics:   metrics,
		mongoConf: mongoConf,
	}, nil
}

// DB returns the database instance, dialing it on first use. If the MongoDB
// configuration is given, a MongoDB instance is dialed. Otherwise, a memory
// database instance is created. When multiple callers arrive before the
// first dial completes, only one dial is performed and the rest wait for its
// result; a failed dial is reported to all of them and retried on the next
// call.
func (b *Backend) DB(ctx context.Context) (database.Database, error) {
	b.mu.RLock()
	db := b.db
	b.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	result, err, _ := b.group.Do("dial", func() (interface{}, error) {
		b.mu.RLock()
		db := b.db
		b.mu.RUnlock()
		if db != nil {
			return db, nil
		}

		var err error
		if b.mongoConf != nil {
			db, err = mongo.Dial(b.mongoConf)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", database.ErrStoreUnavailable, err)
			}
		} else {
			db, err = memdb.New()
			if err != nil {
				return nil, err
			}
		}

		b.mu.Lock()
		b.db = db
		b.mu.Unlock()

		return db, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(database.Database), nil
}

// Ping checks connectivity with the store, dialing it first if needed.
func (b *Backend) Ping(ctx context.Context) error {
	db, err := b.DB(ctx)
	if err != nil {
		return err
	}

	return db.Ping(ctx)
}

// Shutdown closes all resources of this instance. It is safe to call before
// the database has ever been dialed.
func (b *Backend) Shutdown() error {
	b.mu.Lock()
	db := b.db
	b.db = nil
	b.mu.Unlock()

	if db != nil {
		if err := db.Close(); err != nil {
			return err
		}
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
