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

// Package documents provides the record builder and the service layer that
// maps API calls to database calls.
package documents

import (
	"context"
	"errors"
	"fmt"
	gotime "time"
	"unicode/utf8"

	"github.com/scriptorium-team/scriptorium/api/types"
	pkgerrors "github.com/scriptorium-team/scriptorium/pkg/errors"
	"github.com/scriptorium-team/scriptorium/pkg/normalize"
	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
)

// Below are the fixed defaults of builder-owned sub-records. Manually pasted
// content enters the corpus unreviewed and undisclosed opt-out state.
const (
	acquisitionMethod    = "manual_paste"
	defaultLicenseStatus = "pending_review"
	defaultLanguage      = "en"
)

var defaultTopicCategory = []string{"other"}

// ErrEmptyContent is returned when the pasted text normalizes to nothing.
var ErrEmptyContent = pkgerrors.InvalidArgument(
	"content text is empty after normalization",
).WithCode("ErrEmptyContent")

// BuildRecord builds a document record from the operator-provided fields and
// the normalized text. It is pure except for id generation and timestamps.
// The caller validates the fields before invocation.
func BuildRecord(fields *types.CreateDocumentFields, cleanedText string) *types.DocumentRecord {
	now := gotime.Now()

	charCount := utf8.RuneCountInString(cleanedText)

	language := fields.Language
	if language == "" {
		language = defaultLanguage
	}
	topicCategory := fields.TopicCategory
	if len(topicCategory) == 0 {
		topicCategory = defaultTopicCategory
	}

	return &types.DocumentRecord{
		DocumentID:  types.NewID(),
		ContentText: cleanedText,
		Attribution: types.Attribution{
			Author:          fields.Author,
			Title:           fields.Title,
			Publisher:       optional(fields.Publisher),
			ISBN:            optional(fields.ISBN),
			PublicationDate: optional(fields.PublicationDate),
			SourceURL:       optional(fields.SourceURL),
			ContentType:     fields.ContentType,
		},
		ContentMetadata: types.ContentMetadata{
			Language:       language,
			TopicCategory:  topicCategory,
			Genre:          optional(fields.Genre),
			ChapterSection: optional(fields.ChapterSection),
			PageNumbers:    optional(fields.PageNumbers),
		},
		CopyrightCompliance: types.CopyrightCompliance{
			LicenseStatus: defaultLicenseStatus,
			OptOutChecked: false,
			OptOutFound:   false,
			ReviewedAt:    now,
		},
		Provenance: types.Provenance{
			AcquisitionMethod: acquisitionMethod,
			AcquiredAt:        now,
			DataLineage: []types.LineageEntry{
				{
					Step:      "text_normalization",
					Detail:    fmt.Sprintf("raw %d chars, cleaned %d chars", utf8.RuneCountInString(fields.RawText), charCount),
					Timestamp: now,
				},
				{
					Step:      "record_assembly",
					Timestamp: now,
				},
			},
		},
		TrainingMetadata: types.TrainingMetadata{
			CharacterCount:   charCount,
			TokenCount:       tokenCount(charCount),
			ProcessingStatus: types.ProcessingStatusPending,
			Weighting:        fields.Weighting,
		},
		AIActCompliance: types.AIActCompliance{
			TrainingDataDisclosure: true,
			SyntheticContent:       false,
		},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// tokenCount estimates token count as ceil(chars/4). This is a rough
// heuristic, not the output of a real tokenizer.
func tokenCount(charCount int) int {
	return (charCount + 3) / 4
}

// Preview normalizes the pasted text and builds the record without
// persisting it. The returned record is the exact value a subsequent submit
// inserts.
func Preview(
	_ context.Context,
	fields *types.CreateDocumentFields,
) (*types.DocumentRecord, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	cleaned := normalize.Normalize(fields.RawText)
	if cleaned == "" {
		return nil, ErrEmptyContent
	}

	return BuildRecord(fields, cleaned), nil
}

// Create inserts the given record into the store. The content text is
// re-normalized and the derived counts are recomputed so that stored counts
// always reflect the normalized text, even for records built by older
// clients. Normalization is idempotent, so previewed records pass through
// unchanged.
func Create(
	ctx context.Context,
	be *backend.Backend,
	record *types.DocumentRecord,
) (string, error) {
	record = record.DeepCopy()
	record.ContentText = normalize.Normalize(record.ContentText)
	charCount := utf8.RuneCountInString(record.ContentText)
	record.TrainingMetadata.CharacterCount = charCount
	record.TrainingMetadata.TokenCount = tokenCount(charCount)

	if err := record.Validate(); err != nil {
		return "", err
	}

	db, err := be.DB(ctx)
	if err != nil {
		return "", err
	}

	key, err := db.CreateDocument(ctx, record)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDocumentIDConflict):
			be.Metrics.AddDuplicateRejected("id")
		case errors.Is(err, database.ErrDocumentContentConflict):
			be.Metrics.AddDuplicateRejected("content")
		}
		return "", err
	}

	be.Metrics.AddDocumentsCreated(string(record.Attribution.ContentType))
	be.Metrics.AddIngestedBytes(len(record.ContentText))

	return key, nil
}

// List returns up to limit document summaries matching the filter, skipping
// offset records, newest first.
func List(
	ctx context.Context,
	be *backend.Backend,
	filter database.Filter,
	limit int,
	offset int,
) ([]types.DocumentSummary, error) {
	db, err := be.DB(ctx)
	if err != nil {
		return nil, err
	}

	records, err := db.FindDocuments(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.DocumentSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.Summary())
	}

	return summaries, nil
}

// Get returns the full record of the given id.
func Get(
	ctx context.Context,
	be *backend.Backend,
	id types.ID,
) (*types.DocumentRecord, error) {
	db, err := be.DB(ctx)
	if err != nil {
		return nil, err
	}

	return db.FindDocumentByID(ctx, id)
}

// Update merges the given fields into the stored record and returns the
// updated record.
func Update(
	ctx context.Context,
	be *backend.Backend,
	id types.ID,
	fields *types.UpdatableDocumentFields,
) (*types.DocumentRecord, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	db, err := be.DB(ctx)
	if err != nil {
		return nil, err
	}

	record, err := db.UpdateDocument(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	be.Metrics.AddDocumentsUpdated()

	return record, nil
}

// Delete removes the record of the given id. Deleting an absent record is
// not an error.
func Delete(
	ctx context.Context,
	be *backend.Backend,
	id types.ID,
) error {
	db, err := be.DB(ctx)
	if err != nil {
		return err
	}

	if err := db.DeleteDocument(ctx, id); err != nil {
		return err
	}

	be.Metrics.AddDocumentsDeleted()

	return nil
}

// Stats returns aggregate statistics over the whole collection.
func Stats(
	ctx context.Context,
	be *backend.Backend,
) (*types.CollectionStats, error) {
	db, err := be.DB(ctx)
	if err != nil {
		return nil, err
	}

	return db.CollectionStats(ctx)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
