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

// CollectionStats is the aggregate view over the whole document collection.
// On an empty collection every count is zero and ContentTypes is empty.
type CollectionStats struct {
	// TotalDocuments is the number of records in the collection.
	TotalDocuments int64 `json:"total_documents"`

	// TotalCharacters is the sum of character counts over all records.
	TotalCharacters int64 `json:"total_characters"`

	// TotalTokens is the sum of token counts over all records.
	TotalTokens int64 `json:"total_tokens"`

	// AverageWeight is the mean weighting over all records.
	AverageWeight float64 `json:"average_weight"`

	// ContentTypes is the distinct set of content types in the collection.
	ContentTypes []ContentType `json:"content_types"`
}
