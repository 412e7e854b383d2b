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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptorium-team/scriptorium/server/backend/database/memory"
	"github.com/scriptorium-team/scriptorium/server/backend/database/testcases"
)

func TestDB(t *testing.T) {
	t.Run("RunCollectionStatsTest test", func(t *testing.T) {
		// Stats testcases need a collection of their own.
		db, err := memory.New()
		assert.NoError(t, err)
		testcases.RunCollectionStatsTest(t, db)
	})

	db, err := memory.New()
	assert.NoError(t, err)

	t.Run("RunCreateDocumentTest test", func(t *testing.T) {
		testcases.RunCreateDocumentTest(t, db)
	})

	t.Run("RunFindDocumentsTest test", func(t *testing.T) {
		testcases.RunFindDocumentsTest(t, db)
	})

	t.Run("RunFindDocumentByIDTest test", func(t *testing.T) {
		testcases.RunFindDocumentByIDTest(t, db)
	})

	t.Run("RunUpdateDocumentTest test", func(t *testing.T) {
		testcases.RunUpdateDocumentTest(t, db)
	})

	t.Run("RunDeleteDocumentTest test", func(t *testing.T) {
		testcases.RunDeleteDocumentTest(t, db)
	})
}
