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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
package testcases

import (
	"context"
	"strings"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/assert"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
)

func newRecord(title, author, text string, contentType types.ContentType, weighting int) *types.DocumentRecord {
	now := gotime.Now()
	charCount := len([]rune(text))

	return &types.DocumentRecord{
		DocumentID:  types.NewID(),
		ContentText: text,
		Attribution: types.Attribution{
			Author:      author,
			Title:       title,
			ContentType: contentType,
		},
		ContentMetadata: types.ContentMetadata{
			Language:      "en",
			TopicCategory: []string{"other"},
		},
		CopyrightCompliance: types.CopyrightCompliance{
			LicenseStatus: "pending_review",
			ReviewedAt:    now,
		},
		Provenance: types.Provenance{
			AcquisitionMethod: "manual_paste",
			AcquiredAt:        now,
			DataLineage: []types.LineageEntry{
				{Step: "text_normalization", Timestamp: now},
			},
		},
		TrainingMetadata: types.TrainingMetadata{
			CharacterCount:   charCount,
			TokenCount:       (charCount + 3) / 4,
			ProcessingStatus: types.ProcessingStatusPending,
			Weighting:        weighting,
		},
		AIActCompliance: types.AIActCompliance{
			TrainingDataDisclosure: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// RunCreateDocumentTest runs the CreateDocument tests for the given db.
func RunCreateDocumentTest(t *testing.T, db database.Database) {
	t.Run("create document test", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t.Name(), "Jane Author", "Some unique body of text for "+t.Name(), types.ContentTypeEssay, 1)
		key, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)
		assert.NotEmpty(t, key)

		found, err := db.FindDocumentByID(ctx, record.DocumentID)
		assert.NoError(t, err)
		assert.Equal(t, record.DocumentID, found.DocumentID)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t.Name(), "Jane Author", "First body of text for "+t.Name(), types.ContentTypeEssay, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		again := newRecord(t.Name()+" second", "Jane Author", "Entirely different text for "+t.Name(), types.ContentTypeEssay, 1)
		again.DocumentID = record.DocumentID
		_, err = db.CreateDocument(ctx, again)
		assert.ErrorIs(t, err, database.ErrDocumentIDConflict)

		records, err := db.FindDocuments(ctx, database.Filter{}, 100, 0)
		assert.NoError(t, err)
		matches := 0
		for _, r := range records {
			if r.DocumentID == record.DocumentID {
				matches++
			}
		}
		assert.Equal(t, 1, matches)
	})

	t.Run("duplicate content is rejected", func(t *testing.T) {
		ctx := context.Background()

		body := strings.Repeat("An identical opening passage. ", 10)
		record := newRecord(t.Name(), "Jane Author", body, types.ContentTypeEssay, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		dup := newRecord(t.Name(), "Jane Author", body+" With a different tail.", types.ContentTypeEssay, 1)
		_, err = db.CreateDocument(ctx, dup)
		assert.ErrorIs(t, err, database.ErrDocumentContentConflict)
	})

	t.Run("same content under another author is accepted", func(t *testing.T) {
		ctx := context.Background()

		body := strings.Repeat("A shared passage of text. ", 10)
		record := newRecord(t.Name(), "Jane Author", body, types.ContentTypeEssay, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		other := newRecord(t.Name(), "John Author", body, types.ContentTypeEssay, 1)
		_, err = db.CreateDocument(ctx, other)
		assert.NoError(t, err)
	})

	t.Run("pattern characters in content are matched literally", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t.Name(), "Jane Author", "A text with (parens) and [brackets] and $igils.", types.ContentTypeEssay, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		// The prefix contains regex metacharacters. A literal resubmission
		// must still be detected as a duplicate rather than erroring.
		dup := newRecord(t.Name(), "Jane Author", "A text with (parens) and [brackets] and $igils.", types.ContentTypeEssay, 1)
		_, err = db.CreateDocument(ctx, dup)
		assert.ErrorIs(t, err, database.ErrDocumentContentConflict)
	})
}

// RunFindDocumentsTest runs the FindDocuments tests for the given db.
func RunFindDocumentsTest(t *testing.T, db database.Database) {
	t.Run("find documents test", func(t *testing.T) {
		ctx := context.Background()

		for i, contentType := range []types.ContentType{
			types.ContentTypeBook,
			types.ContentTypePoetry,
			types.ContentTypePoetry,
		} {
			record := newRecord(
				t.Name(),
				"Lister Author",
				strings.Repeat("Text for filtered listing. ", 10)+t.Name()+string(rune('a'+i)),
				contentType,
				i,
			)
			_, err := db.CreateDocument(ctx, record)
			assert.NoError(t, err)
		}

		records, err := db.FindDocuments(ctx, database.Filter{
			Author:      "Lister Author",
			ContentType: types.ContentTypePoetry,
		}, 100, 0)
		assert.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = db.FindDocuments(ctx, database.Filter{Author: "Lister Author"}, 2, 0)
		assert.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = db.FindDocuments(ctx, database.Filter{Author: "Lister Author"}, 100, 2)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

// RunFindDocumentByIDTest runs the FindDocumentByID tests for the given db.
func RunFindDocumentByIDTest(t *testing.T, db database.Database) {
	t.Run("find document by id test", func(t *testing.T) {
		ctx := context.Background()

		_, err := db.FindDocumentByID(ctx, types.NewID())
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)

		record := newRecord(t.Name(), "Jane Author", "Body of text for lookup "+t.Name(), types.ContentTypeLetter, 1)
		_, err = db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		found, err := db.FindDocumentByID(ctx, record.DocumentID)
		assert.NoError(t, err)
		assert.Equal(t, record.ContentText, found.ContentText)
		assert.Equal(t, record.Attribution.Title, found.Attribution.Title)
	})
}

// RunUpdateDocumentTest runs the UpdateDocument tests for the given db.
func RunUpdateDocumentTest(t *testing.T, db database.Database) {
	t.Run("update document test", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t.Name(), "Jane Author", "Body of text to update "+t.Name(), types.ContentTypeSpeech, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		status := types.ProcessingStatusApproved
		weighting := 7
		updated, err := db.UpdateDocument(ctx, record.DocumentID, &types.UpdatableDocumentFields{
			ProcessingStatus: &status,
			Weighting:        &weighting,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, types.ProcessingStatusApproved, updated.TrainingMetadata.ProcessingStatus)
		assert.Equal(t, 7, updated.TrainingMetadata.Weighting)
		assert.False(t, updated.UpdatedAt.Before(record.UpdatedAt))

		// Untouched fields survive the merge.
		assert.Equal(t, record.ContentText, updated.ContentText)
		assert.Equal(t, record.Attribution.Title, updated.Attribution.Title)

		title := "Renamed " + t.Name()
		updated, err = db.UpdateDocument(ctx, record.DocumentID, &types.UpdatableDocumentFields{
			Title: &title,
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, updated.Version)
		assert.Equal(t, title, updated.Attribution.Title)
		assert.Equal(t, types.ProcessingStatusApproved, updated.TrainingMetadata.ProcessingStatus)
	})

	t.Run("update of missing document fails", func(t *testing.T) {
		ctx := context.Background()

		weighting := 3
		_, err := db.UpdateDocument(ctx, types.NewID(), &types.UpdatableDocumentFields{
			Weighting: &weighting,
		})
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})
}

// RunDeleteDocumentTest runs the DeleteDocument tests for the given db.
func RunDeleteDocumentTest(t *testing.T, db database.Database) {
	t.Run("delete document test", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t.Name(), "Jane Author", "Body of text to delete "+t.Name(), types.ContentTypeOther, 1)
		_, err := db.CreateDocument(ctx, record)
		assert.NoError(t, err)

		assert.NoError(t, db.DeleteDocument(ctx, record.DocumentID))

		_, err = db.FindDocumentByID(ctx, record.DocumentID)
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("delete of missing document succeeds", func(t *testing.T) {
		ctx := context.Background()

		assert.NoError(t, db.DeleteDocument(ctx, types.NewID()))
	})
}

// RunCollectionStatsTest runs the CollectionStats tests for the given db.
// It must run against a database with no documents in it.
func RunCollectionStatsTest(t *testing.T, db database.Database) {
	t.Run("stats on empty collection", func(t *testing.T) {
		ctx := context.Background()

		stats, err := db.CollectionStats(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalDocuments)
		assert.Equal(t, int64(0), stats.TotalCharacters)
		assert.Equal(t, int64(0), stats.TotalTokens)
		assert.Equal(t, float64(0), stats.AverageWeight)
		assert.Empty(t, stats.ContentTypes)
	})

	t.Run("stats aggregate all documents", func(t *testing.T) {
		ctx := context.Background()

		first := newRecord(t.Name()+" one", "Stats Author", strings.Repeat("aaaa", 100), types.ContentTypeBook, 2)
		_, err := db.CreateDocument(ctx, first)
		assert.NoError(t, err)

		second := newRecord(t.Name()+" two", "Stats Author", strings.Repeat("bbbb", 50), types.ContentTypeBook, 4)
		_, err = db.CreateDocument(ctx, second)
		assert.NoError(t, err)

		stats, err := db.CollectionStats(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalDocuments)
		assert.Equal(t, int64(600), stats.TotalCharacters)
		assert.Equal(t, int64(150), stats.TotalTokens)
		assert.Equal(t, float64(3), stats.AverageWeight)
		assert.Equal(t, []types.ContentType{types.ContentTypeBook}, stats.ContentTypes)
	})
}
