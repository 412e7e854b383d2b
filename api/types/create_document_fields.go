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
	"github.com/scriptorium-team/scriptorium/internal/validation"
)

// CreateDocumentFields is the set of operator-provided fields used to build
// a document record. RawText is the pasted text before normalization.
type CreateDocumentFields struct {
	// RawText is the pasted text.
	RawText string `json:"raw_text" validate:"required,notblank"`

	// Title of the content.
	Title string `json:"title" validate:"required,notblank,max=500"`

	// Author of the content.
	Author string `json:"author" validate:"required,notblank,max=200"`

	// ContentType is the kind of content.
	ContentType ContentType `json:"content_type" validate:"required,contenttype"`

	// Publisher of the content, optional.
	Publisher string `json:"publisher,omitempty"`

	// ISBN of the source publication, optional.
	ISBN string `json:"isbn,omitempty"`

	// PublicationDate of the source, optional.
	PublicationDate string `json:"publication_date,omitempty"`

	// SourceURL of the content, optional.
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`

	// Language of the content. Defaults to "en" when empty.
	Language string `json:"language,omitempty"`

	// TopicCategory list. Defaults to ["other"] when empty.
	TopicCategory []string `json:"topic_category,omitempty"`

	// Genre of the content, optional.
	Genre string `json:"genre,omitempty"`

	// ChapterSection excerpted, optional.
	ChapterSection string `json:"chapter_section,omitempty"`

	// PageNumbers excerpted, optional.
	PageNumbers string `json:"page_numbers,omitempty"`

	// Weighting is the sampling weight of the document.
	Weighting int `json:"weighting" validate:"min=0,max=100"`
}

// Validate validates the operator-provided fields. It fails fast, before
// any store interaction.
func (i *CreateDocumentFields) Validate() error {
	return validation.ValidateStruct(i)
}
