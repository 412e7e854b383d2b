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

// Package memory implements the database interface using an in-memory
// database. It is used for tests and for running without MongoDB.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	gotime "time"

	"github.com/hashicorp/go-memdb"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// Ping checks connectivity. The in-memory database is always reachable.
func (d *DB) Ping(_ context.Context) error {
	return nil
}

// documentEntry wraps a DocumentRecord with the flattened fields the memdb
// indexers need.
type documentEntry struct {
	ID          string
	Title       string
	Author      string
	ContentType string
	Record      *types.DocumentRecord
}

func newDocumentEntry(record *types.DocumentRecord) *documentEntry {
	return &documentEntry{
		ID:          record.DocumentID.String(),
		Title:       record.Attribution.Title,
		Author:      record.Attribution.Author,
		ContentType: string(record.Attribution.ContentType),
		Record:      record,
	}
}

// CreateDocument persists the given record after the same duplicate checks
// the MongoDB implementation performs.
func (d *DB) CreateDocument(
	_ context.Context,
	record *types.DocumentRecord,
) (string, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblDocuments, "id", record.DocumentID.String())
	if err != nil {
		return "", fmt.Errorf("find document by id: %w", err)
	}
	if existing != nil {
		return "", database.ErrDocumentIDConflict
	}

	prefix := database.ContentPrefix(record.ContentText)
	it, err := txn.Get(tblDocuments, "title_author", record.Attribution.Title, record.Attribution.Author)
	if err != nil {
		return "", fmt.Errorf("find documents by title and author: %w", err)
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if strings.HasPrefix(raw.(*documentEntry).Record.ContentText, prefix) {
			return "", database.ErrDocumentContentConflict
		}
	}

	if err := txn.Insert(tblDocuments, newDocumentEntry(record.DeepCopy())); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	txn.Commit()

	return record.DocumentID.String(), nil
}

// FindDocuments returns up to limit records matching the filter, skipping
// offset records, newest first.
func (d *DB) FindDocuments(
	_ context.Context,
	filter database.Filter,
	limit int,
	offset int,
) ([]*types.DocumentRecord, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "id")
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	var matched []*types.DocumentRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		record := raw.(*documentEntry).Record
		if !matchesFilter(record, filter) {
			continue
		}
		matched = append(matched, record)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	records := make([]*types.DocumentRecord, 0, len(matched))
	for _, record := range matched {
		records = append(records, record.DeepCopy())
	}

	return records, nil
}

// FindDocumentByID finds the document of the given id.
func (d *DB) FindDocumentByID(
	_ context.Context,
	id types.ID,
) (*types.DocumentRecord, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}

	return raw.(*documentEntry).Record.DeepCopy(), nil
}

// UpdateDocument merges the given fields into the stored record, refreshes
// updated_at and increments version. The write transaction makes the merge
// and the version bump atomic.
func (d *DB) UpdateDocument(
	_ context.Context,
	id types.ID,
	fields *types.UpdatableDocumentFields,
) (*types.DocumentRecord, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}

	record := raw.(*documentEntry).Record.DeepCopy()
	fields.ApplyTo(record)
	record.UpdatedAt = gotime.Now()
	record.Version++

	if err := txn.Insert(tblDocuments, newDocumentEntry(record)); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	txn.Commit()

	return record.DeepCopy(), nil
}

// DeleteDocument removes the record of the given id. Deleting an absent
// record is not an error.
func (d *DB) DeleteDocument(_ context.Context, id types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id.String())
	if err != nil {
		return fmt.Errorf("find document by id: %w", err)
	}
	if raw == nil {
		return nil
	}

	if err := txn.Delete(tblDocuments, raw); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	txn.Commit()

	return nil
}

// CollectionStats returns aggregate statistics over the whole collection.
func (d *DB) CollectionStats(_ context.Context) (*types.CollectionStats, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "id")
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	stats := &types.CollectionStats{
		ContentTypes: []types.ContentType{},
	}

	var totalWeight int64
	seenTypes := map[types.ContentType]bool{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		record := raw.(*documentEntry).Record

		stats.TotalDocuments++
		stats.TotalCharacters += int64(record.TrainingMetadata.CharacterCount)
		stats.TotalTokens += int64(record.TrainingMetadata.TokenCount)
		totalWeight += int64(record.TrainingMetadata.Weighting)

		if !seenTypes[record.Attribution.ContentType] {
			seenTypes[record.Attribution.ContentType] = true
			stats.ContentTypes = append(stats.ContentTypes, record.Attribution.ContentType)
		}
	}

	if stats.TotalDocuments > 0 {
		stats.AverageWeight = float64(totalWeight) / float64(stats.TotalDocuments)
	}

	sort.Slice(stats.ContentTypes, func(i, j int) bool {
		return stats.ContentTypes[i] < stats.ContentTypes[j]
	})

	return stats, nil
}

func matchesFilter(record *types.DocumentRecord, filter database.Filter) bool {
	if filter.Author != "" && record.Attribution.Author != filter.Author {
		return false
	}
	if filter.ContentType != "" && record.Attribution.ContentType != filter.ContentType {
		return false
	}
	if filter.ProcessingStatus != "" && record.TrainingMetadata.ProcessingStatus != filter.ProcessingStatus {
		return false
	}
	return true
}
