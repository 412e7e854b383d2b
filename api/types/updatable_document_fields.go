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

package types

import (
	"errors"

	"github.com/scriptorium-team/scriptorium/internal/validation"
)

// ErrEmptyDocumentFields is returned when all the patch fields are empty.
var ErrEmptyDocumentFields = errors.New("UpdatableDocumentFields is empty")

// Below are the processing statuses a document can be moved through.
const (
	ProcessingStatusPending  = "pending"
	ProcessingStatusApproved = "approved"
	ProcessingStatusExcluded = "excluded"
)

// UpdatableDocumentFields is the set of fields that can be patched on a
// stored document record. Applying a patch bumps the record version and
// updated_at; everything else on the record is read-only after insert.
type UpdatableDocumentFields struct {
	// Title is the new attribution title.
	Title *string `bson:"attribution.title,omitempty" json:"title,omitempty" validate:"omitempty,notblank,max=500"`

	// Author is the new attribution author.
	Author *string `bson:"attribution.author,omitempty" json:"author,omitempty" validate:"omitempty,notblank,max=200"`

	// Publisher is the new attribution publisher.
	Publisher *string `bson:"attribution.publisher,omitempty" json:"publisher,omitempty"`

	// TopicCategory is the new topic category list.
	TopicCategory *[]string `bson:"content_metadata.topic_category,omitempty" json:"topic_category,omitempty"`

	// Genre is the new genre.
	Genre *string `bson:"content_metadata.genre,omitempty" json:"genre,omitempty"`

	// ProcessingStatus is the new processing status.
	ProcessingStatus *string `bson:"training_metadata.processing_status,omitempty" json:"processing_status,omitempty" validate:"omitempty,oneof=pending approved excluded"`

	// Weighting is the new sampling weight.
	Weighting *int `bson:"training_metadata.weighting,omitempty" json:"weighting,omitempty" validate:"omitempty,min=0,max=100"`
}

// ApplyTo merges the non-nil fields into the given record. Version and
// updated_at bookkeeping is the store's responsibility, not ApplyTo's.
func (i *UpdatableDocumentFields) ApplyTo(record *DocumentRecord) {
	if i.Title != nil {
		record.Attribution.Title = *i.Title
	}
	if i.Author != nil {
		record.Attribution.Author = *i.Author
	}
	if i.Publisher != nil {
		record.Attribution.Publisher = copyStringPtr(i.Publisher)
	}
	if i.TopicCategory != nil {
		record.ContentMetadata.TopicCategory = append([]string(nil), (*i.TopicCategory)...)
	}
	if i.Genre != nil {
		record.ContentMetadata.Genre = copyStringPtr(i.Genre)
	}
	if i.ProcessingStatus != nil {
		record.TrainingMetadata.ProcessingStatus = *i.ProcessingStatus
	}
	if i.Weighting != nil {
		record.TrainingMetadata.Weighting = *i.Weighting
	}
}

// Validate validates the UpdatableDocumentFields.
func (i *UpdatableDocumentFields) Validate() error {
	if i.Title == nil && i.Author == nil && i.Publisher == nil &&
		i.TopicCategory == nil && i.Genre == nil &&
		i.ProcessingStatus == nil && i.Weighting == nil {
		return ErrEmptyDocumentFields
	}

	return validation.ValidateStruct(i)
}
