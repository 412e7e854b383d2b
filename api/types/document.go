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
	"time"
)

// ContentType is the enumerated kind of content a document carries.
type ContentType string

// Below are the content types accepted in attribution metadata.
const (
	ContentTypeBook       ContentType = "book"
	ContentTypeArticle    ContentType = "article"
	ContentTypeEssay      ContentType = "essay"
	ContentTypePoetry     ContentType = "poetry"
	ContentTypeSpeech     ContentType = "speech"
	ContentTypeLetter     ContentType = "letter"
	ContentTypeTranscript ContentType = "transcript"
	ContentTypeOther      ContentType = "other"
)

// ContentTypes is the list of all accepted content types.
var ContentTypes = []ContentType{
	ContentTypeBook,
	ContentTypeArticle,
	ContentTypeEssay,
	ContentTypePoetry,
	ContentTypeSpeech,
	ContentTypeLetter,
	ContentTypeTranscript,
	ContentTypeOther,
}

// IsValidContentType returns true if the given content type is one of the
// accepted values.
func IsValidContentType(contentType ContentType) bool {
	for _, ct := range ContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

// Attribution is the authorship and publication metadata block of a record.
// Optional fields are nil when not provided, never empty strings, to
// disambiguate "not provided" from "empty content" downstream.
type Attribution struct {
	// Author is the author of the content.
	Author string `bson:"author" json:"author" validate:"required,notblank"`

	// Title is the title of the content.
	Title string `bson:"title" json:"title" validate:"required,notblank"`

	// Publisher is the publisher, if known.
	Publisher *string `bson:"publisher,omitempty" json:"publisher,omitempty"`

	// ISBN is the ISBN of the source publication, if any.
	ISBN *string `bson:"isbn,omitempty" json:"isbn,omitempty"`

	// PublicationDate is the publication date of the source, if known.
	PublicationDate *string `bson:"publication_date,omitempty" json:"publication_date,omitempty"`

	// SourceURL is where the content was found, if applicable.
	SourceURL *string `bson:"source_url,omitempty" json:"source_url,omitempty"`

	// ContentType is the kind of content.
	ContentType ContentType `bson:"content_type" json:"content_type" validate:"required,contenttype"`
}

// ContentMetadata describes the content itself.
type ContentMetadata struct {
	// Language is the language of the content as a BCP 47-ish tag.
	Language string `bson:"language" json:"language"`

	// TopicCategory is the list of topic categories.
	TopicCategory []string `bson:"topic_category" json:"topic_category"`

	// Genre of the content, if known.
	Genre *string `bson:"genre,omitempty" json:"genre,omitempty"`

	// ChapterSection identifies the chapter or section excerpted, if any.
	ChapterSection *string `bson:"chapter_section,omitempty" json:"chapter_section,omitempty"`

	// PageNumbers identifies the page range excerpted, if any.
	PageNumbers *string `bson:"page_numbers,omitempty" json:"page_numbers,omitempty"`
}

// CopyrightCompliance is a fixed-default compliance sub-record. It is set by
// the record builder and is not operator-editable.
type CopyrightCompliance struct {
	// LicenseStatus is the review status of the content license.
	LicenseStatus string `bson:"license_status" json:"license_status"`

	// OptOutChecked indicates whether opt-out registries were consulted.
	OptOutChecked bool `bson:"opt_out_checked" json:"opt_out_checked"`

	// OptOutFound indicates whether an opt-out was found for the rights holder.
	OptOutFound bool `bson:"opt_out_found" json:"opt_out_found"`

	// ReviewedAt is the time the compliance record was created.
	ReviewedAt time.Time `bson:"reviewed_at" json:"reviewed_at"`
}

// LineageEntry records a single processing step applied to a record's content.
type LineageEntry struct {
	// Step names the processing step.
	Step string `bson:"step" json:"step"`

	// Detail carries step-specific detail, if any.
	Detail string `bson:"detail,omitempty" json:"detail,omitempty"`

	// Timestamp is when the step was applied.
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Provenance is the acquisition metadata of a record. DataLineage is
// append-only: processing steps are added, never rewritten.
type Provenance struct {
	// AcquisitionMethod is how the content entered the corpus.
	AcquisitionMethod string `bson:"acquisition_method" json:"acquisition_method"`

	// AcquiredAt is when the content was acquired.
	AcquiredAt time.Time `bson:"acquired_at" json:"acquired_at"`

	// DataLineage is the append-only log of processing steps.
	DataLineage []LineageEntry `bson:"data_lineage" json:"data_lineage"`
}

// TrainingMetadata carries the derived size and weight fields used for
// downstream corpus consumption.
type TrainingMetadata struct {
	// CharacterCount is the length of the normalized content text.
	CharacterCount int `bson:"character_count" json:"character_count"`

	// TokenCount is ceil(CharacterCount/4). This is a rough heuristic
	// estimate, not the output of a real tokenizer, and must not be
	// treated as exact.
	TokenCount int `bson:"token_count" json:"token_count"`

	// ProcessingStatus is the downstream processing status.
	ProcessingStatus string `bson:"processing_status" json:"processing_status"`

	// Weighting is the sampling weight of the document.
	Weighting int `bson:"weighting" json:"weighting"`
}

// AIActCompliance carries fixed disclosure flags.
type AIActCompliance struct {
	// TrainingDataDisclosure indicates the record is disclosed as training data.
	TrainingDataDisclosure bool `bson:"training_data_disclosure" json:"training_data_disclosure"`

	// SyntheticContent indicates whether the content is machine-generated.
	SyntheticContent bool `bson:"synthetic_content" json:"synthetic_content"`
}

// DocumentRecord is the fixed-schema unit persisted per corpus entry. The
// same schema is serialized as JSON for transport and as the native document
// format in storage.
type DocumentRecord struct {
	// DocumentID is the globally unique id of this record, assigned at
	// creation time.
	DocumentID ID `bson:"document_id" json:"document_id" validate:"required"`

	// ContentText is the normalized text content.
	ContentText string `bson:"content_text" json:"content_text" validate:"required,notblank"`

	// Attribution is the authorship/publication metadata.
	Attribution Attribution `bson:"attribution" json:"attribution"`

	// ContentMetadata describes the content.
	ContentMetadata ContentMetadata `bson:"content_metadata" json:"content_metadata"`

	// CopyrightCompliance is the fixed-default compliance sub-record.
	CopyrightCompliance CopyrightCompliance `bson:"copyright_compliance" json:"copyright_compliance"`

	// Provenance is the acquisition metadata and data lineage.
	Provenance Provenance `bson:"provenance" json:"provenance"`

	// TrainingMetadata is the derived size/weight block.
	TrainingMetadata TrainingMetadata `bson:"training_metadata" json:"training_metadata"`

	// AIActCompliance is the fixed disclosure flags.
	AIActCompliance AIActCompliance `bson:"ai_act_compliance" json:"ai_act_compliance"`

	// CreatedAt is the time the record was created.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// UpdatedAt is the time the record was last updated.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Version starts at 1 and is incremented on every update.
	Version int `bson:"version" json:"version"`
}

// Summary returns the listing projection of this record. It never carries
// the full text.
func (r *DocumentRecord) Summary() DocumentSummary {
	return DocumentSummary{
		DocumentID:     r.DocumentID,
		Title:          r.Attribution.Title,
		Author:         r.Attribution.Author,
		ContentType:    r.Attribution.ContentType,
		CreatedAt:      r.CreatedAt,
		CharacterCount: r.TrainingMetadata.CharacterCount,
		Weighting:      r.TrainingMetadata.Weighting,
	}
}

// DeepCopy returns a deep copy of this record.
func (r *DocumentRecord) DeepCopy() *DocumentRecord {
	if r == nil {
		return nil
	}

	clone := *r

	clone.Attribution.Publisher = copyStringPtr(r.Attribution.Publisher)
	clone.Attribution.ISBN = copyStringPtr(r.Attribution.ISBN)
	clone.Attribution.PublicationDate = copyStringPtr(r.Attribution.PublicationDate)
	clone.Attribution.SourceURL = copyStringPtr(r.Attribution.SourceURL)
	clone.ContentMetadata.Genre = copyStringPtr(r.ContentMetadata.Genre)
	clone.ContentMetadata.ChapterSection = copyStringPtr(r.ContentMetadata.ChapterSection)
	clone.ContentMetadata.PageNumbers = copyStringPtr(r.ContentMetadata.PageNumbers)

	clone.ContentMetadata.TopicCategory = append([]string(nil), r.ContentMetadata.TopicCategory...)
	clone.Provenance.DataLineage = append([]LineageEntry(nil), r.Provenance.DataLineage...)

	return &clone
}

// DocumentSummary is the listing projection of a document record: id, title,
// author, content type, creation time, character count and weighting.
type DocumentSummary struct {
	DocumentID     ID          `json:"document_id"`
	Title          string      `json:"title"`
	Author         string      `json:"author"`
	ContentType    ContentType `json:"content_type"`
	CreatedAt      time.Time   `json:"created_at"`
	CharacterCount int         `json:"character_count"`
	Weighting      int         `json:"weighting"`
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
