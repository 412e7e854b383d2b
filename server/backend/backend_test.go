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

package backend_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
	"github.com/scriptorium-team/scriptorium/server/profiling/prometheus"
)

func TestBackend(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)

	t.Run("lazy dial returns the same instance", func(t *testing.T) {
		be, err := backend.New(&backend.Config{}, nil, metrics)
		assert.NoError(t, err)

		ctx := context.Background()
		first, err := be.DB(ctx)
		assert.NoError(t, err)
		second, err := be.DB(ctx)
		assert.NoError(t, err)
		assert.Same(t, first, second)

		assert.NoError(t, be.Shutdown())
	})

	t.Run("concurrent first uses share one database", func(t *testing.T) {
		be, err := backend.New(&backend.Config{}, nil, metrics)
		assert.NoError(t, err)

		const callers = 10
		dbs := make([]database.Database, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				db, err := be.DB(context.Background())
				assert.NoError(t, err)
				dbs[i] = db
			}()
		}
		wg.Wait()

		for i := 1; i < callers; i++ {
			assert.Same(t, dbs[0], dbs[i])
		}

		assert.NoError(t, be.Shutdown())
	})

	t.Run("shutdown before dial is safe", func(t *testing.T) {
		be, err := backend.New(&backend.Config{}, nil, metrics)
		assert.NoError(t, err)
		assert.NoError(t, be.Shutdown())
	})

	t.Run("ping dials the database", func(t *testing.T) {
		be, err := backend.New(&backend.Config{}, nil, metrics)
		assert.NoError(t, err)
		assert.NoError(t, be.Ping(context.Background()))
		assert.NoError(t, be.Shutdown())
	})
}
