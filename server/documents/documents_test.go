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

package documents_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/internal/validation"
	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
	"github.com/scriptorium-team/scriptorium/server/documents"
	"github.com/scriptorium-team/scriptorium/server/profiling/prometheus"
)

func setUpBackend(t *testing.T) *backend.Backend {
	t.Helper()

	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)

	be, err := backend.New(&backend.Config{Hostname: "test"}, nil, metrics)
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, be.Shutdown())
	})

	return be
}

func newFields(title string) *types.CreateDocumentFields {
	return &types.CreateDocumentFields{
		RawText:     "A pasted passage of text for " + title + ".",
		Title:       title,
		Author:      "Jane Author",
		ContentType: types.ContentTypeEssay,
		Weighting:   1,
	}
}

func TestBuildRecord(t *testing.T) {
	t.Run("derived counts follow the cleaned text", func(t *testing.T) {
		cleaned := strings.Repeat("abcd", 100)
		record := documents.BuildRecord(newFields(t.Name()), cleaned)

		assert.Equal(t, 400, record.TrainingMetadata.CharacterCount)
		assert.Equal(t, 100, record.TrainingMetadata.TokenCount)
	})

	t.Run("token count rounds up", func(t *testing.T) {
		record := documents.BuildRecord(newFields(t.Name()), "abcde")

		assert.Equal(t, 5, record.TrainingMetadata.CharacterCount)
		assert.Equal(t, 2, record.TrainingMetadata.TokenCount)
	})

	t.Run("character count is rune based", func(t *testing.T) {
		record := documents.BuildRecord(newFields(t.Name()), "café")

		assert.Equal(t, 4, record.TrainingMetadata.CharacterCount)
		assert.Equal(t, 1, record.TrainingMetadata.TokenCount)
	})

	t.Run("builder defaults", func(t *testing.T) {
		record := documents.BuildRecord(newFields(t.Name()), "Some cleaned text.")

		assert.NoError(t, record.DocumentID.Validate())
		assert.Equal(t, 1, record.Version)
		assert.Equal(t, record.CreatedAt, record.UpdatedAt)
		assert.Equal(t, "en", record.ContentMetadata.Language)
		assert.Equal(t, []string{"other"}, record.ContentMetadata.TopicCategory)
		assert.Equal(t, "pending", record.TrainingMetadata.ProcessingStatus)
		assert.Equal(t, "pending_review", record.CopyrightCompliance.LicenseStatus)
		assert.False(t, record.CopyrightCompliance.OptOutChecked)
		assert.Equal(t, "manual_paste", record.Provenance.AcquisitionMethod)
		assert.True(t, record.AIActCompliance.TrainingDataDisclosure)
		assert.False(t, record.AIActCompliance.SyntheticContent)
		assert.Len(t, record.Provenance.DataLineage, 2)
	})

	t.Run("omitted optional fields stay nil", func(t *testing.T) {
		record := documents.BuildRecord(newFields(t.Name()), "Some cleaned text.")

		assert.Nil(t, record.Attribution.Publisher)
		assert.Nil(t, record.Attribution.ISBN)
		assert.Nil(t, record.Attribution.SourceURL)
		assert.Nil(t, record.ContentMetadata.Genre)
	})

	t.Run("provided optional fields are kept", func(t *testing.T) {
		fields := newFields(t.Name())
		fields.Publisher = "Acme Press"
		fields.Genre = "satire"

		record := documents.BuildRecord(fields, "Some cleaned text.")

		assert.NotNil(t, record.Attribution.Publisher)
		assert.Equal(t, "Acme Press", *record.Attribution.Publisher)
		assert.NotNil(t, record.ContentMetadata.Genre)
		assert.Equal(t, "satire", *record.ContentMetadata.Genre)
	})
}

func TestPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("preview builds without persisting", func(t *testing.T) {
		fields := newFields(t.Name())
		fields.RawText = "Hello   world"

		record, err := documents.Preview(ctx, fields)
		assert.NoError(t, err)
		assert.Equal(t, "Hello world", record.ContentText)
	})

	t.Run("invalid fields are rejected", func(t *testing.T) {
		fields := newFields(t.Name())
		fields.Title = "   "

		_, err := documents.Preview(ctx, fields)
		var structErr *validation.StructError
		assert.ErrorAs(t, err, &structErr)
	})

	t.Run("text that normalizes to nothing is rejected", func(t *testing.T) {
		fields := newFields(t.Name())
		fields.RawText = " [1] "

		_, err := documents.Preview(ctx, fields)
		assert.ErrorIs(t, err, documents.ErrEmptyContent)
	})
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)

		key, err := documents.Create(ctx, be, record)
		assert.NoError(t, err)
		assert.NotEmpty(t, key)

		found, err := documents.Get(ctx, be, record.DocumentID)
		assert.NoError(t, err)
		assert.Equal(t, record.ContentText, found.ContentText)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("create re-derives counts from normalized text", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)

		// Tampered counts do not survive the insert.
		record.TrainingMetadata.CharacterCount = 1
		record.TrainingMetadata.TokenCount = 1

		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		found, err := documents.Get(ctx, be, record.DocumentID)
		assert.NoError(t, err)
		chars := len([]rune(found.ContentText))
		assert.Equal(t, chars, found.TrainingMetadata.CharacterCount)
		assert.Equal(t, (chars+3)/4, found.TrainingMetadata.TokenCount)
	})

	t.Run("resubmitting a previewed record is a duplicate", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)

		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		again, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)
		_, err = documents.Create(ctx, be, again)
		assert.ErrorIs(t, err, database.ErrDocumentContentConflict)
	})

	t.Run("list returns summaries without text", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)
		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		summaries, err := documents.List(ctx, be, database.Filter{}, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, summaries, 1)
		assert.Equal(t, record.DocumentID, summaries[0].DocumentID)
		assert.Equal(t, t.Name(), summaries[0].Title)
	})

	t.Run("update bumps version", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)
		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		weighting := 9
		updated, err := documents.Update(ctx, be, record.DocumentID, &types.UpdatableDocumentFields{
			Weighting: &weighting,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, 9, updated.TrainingMetadata.Weighting)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		be := setUpBackend(t)

		_, err := documents.Update(ctx, be, types.NewID(), &types.UpdatableDocumentFields{})
		assert.ErrorIs(t, err, types.ErrEmptyDocumentFields)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		be := setUpBackend(t)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)
		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		assert.NoError(t, documents.Delete(ctx, be, record.DocumentID))
		assert.NoError(t, documents.Delete(ctx, be, record.DocumentID))

		_, err = documents.Get(ctx, be, record.DocumentID)
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("stats over the collection", func(t *testing.T) {
		be := setUpBackend(t)

		stats, err := documents.Stats(ctx, be)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalDocuments)

		record, err := documents.Preview(ctx, newFields(t.Name()))
		assert.NoError(t, err)
		_, err = documents.Create(ctx, be, record)
		assert.NoError(t, err)

		stats, err = documents.Stats(ctx, be)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalDocuments)
		assert.Equal(t, []types.ContentType{types.ContentTypeEssay}, stats.ContentTypes)
	})
}
