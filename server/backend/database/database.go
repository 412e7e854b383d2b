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

// Package database provides the database interface for the document store.
package database

import (
	"context"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/pkg/errors"
)

var (
	// ErrDocumentNotFound is returned when the document could not be found.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrDocumentIDConflict is returned when a document with the same id
	// already exists.
	ErrDocumentIDConflict = errors.AlreadyExists("document id already exists").WithCode("ErrDocumentIDConflict")

	// ErrDocumentContentConflict is returned when a document with the same
	// title, author and content prefix already exists.
	ErrDocumentContentConflict = errors.AlreadyExists(
		"document with matching title, author and content already exists",
	).WithCode("ErrDocumentContentConflict")

	// ErrStoreUnavailable is returned when the document store cannot be
	// reached.
	ErrStoreUnavailable = errors.Unavailable("document store unavailable").WithCode("ErrStoreUnavailable")
)

// ContentPrefixLength is the number of leading characters of the incoming
// content used for duplicate detection. The check is a best-effort
// heuristic: the stored side is compared as-is, so it reduces, not
// eliminates, duplicate submissions.
const ContentPrefixLength = 100

// ContentPrefix returns the duplicate-detection prefix of the given text:
// its first ContentPrefixLength characters.
func ContentPrefix(text string) string {
	runes := []rune(text)
	if len(runes) <= ContentPrefixLength {
		return text
	}
	return string(runes[:ContentPrefixLength])
}

// Filter narrows FindDocuments results. Zero-valued fields do not filter.
type Filter struct {
	// Author matches the attribution author exactly.
	Author string

	// ContentType matches the attribution content type.
	ContentType types.ContentType

	// ProcessingStatus matches the training-metadata processing status.
	ProcessingStatus string
}

// Database represents the document store which reads or saves document
// records. All operations may block on I/O and honor context cancellation.
type Database interface {
	// CreateDocument persists the given record after checking for an
	// existing record with the same id and for an existing record with the
	// same title, author and content prefix. It returns the storage key of
	// the persisted record.
	CreateDocument(ctx context.Context, record *types.DocumentRecord) (string, error)

	// FindDocuments returns up to limit records matching the filter,
	// skipping offset records, newest first.
	FindDocuments(ctx context.Context, filter Filter, limit, offset int) ([]*types.DocumentRecord, error)

	// FindDocumentByID returns the record with the given id, or
	// ErrDocumentNotFound.
	FindDocumentByID(ctx context.Context, id types.ID) (*types.DocumentRecord, error)

	// UpdateDocument merges the given fields into the stored record, sets
	// updated_at and increments version atomically with the merge. It
	// returns the updated record.
	UpdateDocument(ctx context.Context, id types.ID, fields *types.UpdatableDocumentFields) (*types.DocumentRecord, error)

	// DeleteDocument removes the record if present. Deleting an absent
	// record is not an error.
	DeleteDocument(ctx context.Context, id types.ID) error

	// CollectionStats returns aggregate statistics over the whole
	// collection. On an empty collection every count is zero.
	CollectionStats(ctx context.Context) (*types.CollectionStats, error)

	// Ping checks connectivity with the underlying store.
	Ping(ctx context.Context) error

	// Close releases all resources of this database.
	Close() error
}
