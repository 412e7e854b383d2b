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

package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/httpapi"
	"github.com/scriptorium-team/scriptorium/server/profiling/prometheus"
)

func setUpRouter(t *testing.T) *gin.Engine {
	t.Helper()

	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)

	be, err := backend.New(&backend.Config{Hostname: "test"}, nil, metrics)
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, be.Shutdown())
	})

	return httpapi.NewRouter(&httpapi.Config{Port: 8080}, be)
}

func request(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func previewRecord(t *testing.T, router *gin.Engine, title string) *types.DocumentRecord {
	t.Helper()

	rec := request(t, router, http.MethodPost, "/api/documents/preview", &types.CreateDocumentFields{
		RawText:     "A pasted passage of text for " + title + ".",
		Title:       title,
		Author:      "Jane Author",
		ContentType: types.ContentTypeEssay,
		Weighting:   1,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	record := &types.DocumentRecord{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), record))
	return record
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpapi.APIError {
	t.Helper()

	envelope := &httpapi.ErrorEnvelope{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), envelope))
	return envelope.Error
}

func TestPreviewDocument(t *testing.T) {
	router := setUpRouter(t)

	t.Run("preview returns the normalized record", func(t *testing.T) {
		rec := request(t, router, http.MethodPost, "/api/documents/preview", &types.CreateDocumentFields{
			RawText:     "Hello   world",
			Title:       t.Name(),
			Author:      "Jane Author",
			ContentType: types.ContentTypeEssay,
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		record := &types.DocumentRecord{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), record))
		assert.Equal(t, "Hello world", record.ContentText)
		assert.Equal(t, 11, record.TrainingMetadata.CharacterCount)
		assert.Equal(t, 3, record.TrainingMetadata.TokenCount)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodPost, "/api/documents/preview", &types.CreateDocumentFields{
			RawText:     "Some text.",
			Title:       "   ",
			Author:      "Jane Author",
			ContentType: types.ContentTypeEssay,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ErrInvalidDocumentFields", decodeError(t, rec).Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/documents/preview", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ErrInvalidRequest", decodeError(t, rec).Code)
	})
}

func TestCreateDocument(t *testing.T) {
	router := setUpRouter(t)

	t.Run("submit inserts the previewed record", func(t *testing.T) {
		record := previewRecord(t, router, t.Name())

		rec := request(t, router, http.MethodPost, "/api/documents", record)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Success    bool   `json:"success"`
			InsertedID string `json:"insertedId"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.InsertedID)
	})

	t.Run("same id twice conflicts", func(t *testing.T) {
		record := previewRecord(t, router, t.Name())

		rec := request(t, router, http.MethodPost, "/api/documents", record)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = request(t, router, http.MethodPost, "/api/documents", record)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ErrDocumentIDConflict", decodeError(t, rec).Code)
	})

	t.Run("same content twice conflicts", func(t *testing.T) {
		record := previewRecord(t, router, t.Name())
		rec := request(t, router, http.MethodPost, "/api/documents", record)
		assert.Equal(t, http.StatusCreated, rec.Code)

		// A fresh preview of the same pasted text gets a new id but the same
		// title, author and content.
		again := previewRecord(t, router, t.Name())
		rec = request(t, router, http.MethodPost, "/api/documents", again)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ErrDocumentContentConflict", decodeError(t, rec).Code)
	})
}

func TestListDocuments(t *testing.T) {
	router := setUpRouter(t)

	record := previewRecord(t, router, t.Name())
	rec := request(t, router, http.MethodPost, "/api/documents", record)
	assert.Equal(t, http.StatusCreated, rec.Code)

	t.Run("summaries never include the text", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Documents []map[string]any `json:"documents"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Documents, 1)
		assert.Equal(t, record.DocumentID.String(), body.Documents[0]["document_id"])
		assert.NotContains(t, body.Documents[0], "content_text")
	})

	t.Run("content type filter", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents?content_type=poetry", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Documents []map[string]any `json:"documents"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Empty(t, body.Documents)
	})

	t.Run("unknown content type is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents?content_type=novella", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ErrInvalidContentType", decodeError(t, rec).Code)
	})

	t.Run("bad limit is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetDocument(t *testing.T) {
	router := setUpRouter(t)

	record := previewRecord(t, router, t.Name())
	rec := request(t, router, http.MethodPost, "/api/documents", record)
	assert.Equal(t, http.StatusCreated, rec.Code)

	t.Run("full record by id", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents/"+record.DocumentID.String(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		found := &types.DocumentRecord{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), found))
		assert.Equal(t, record.ContentText, found.ContentText)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents/"+types.NewID().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ErrDocumentNotFound", decodeError(t, rec).Code)
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/documents/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ErrInvalidDocumentID", decodeError(t, rec).Code)
	})
}

func TestUpdateDocument(t *testing.T) {
	router := setUpRouter(t)

	record := previewRecord(t, router, t.Name())
	rec := request(t, router, http.MethodPost, "/api/documents", record)
	assert.Equal(t, http.StatusCreated, rec.Code)

	t.Run("patch bumps the version", func(t *testing.T) {
		rec := request(t, router, http.MethodPatch, "/api/documents/"+record.DocumentID.String(), map[string]any{
			"processing_status": "approved",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		updated := &types.DocumentRecord{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), updated))
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "approved", updated.TrainingMetadata.ProcessingStatus)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodPatch, "/api/documents/"+record.DocumentID.String(), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ErrEmptyDocumentFields", decodeError(t, rec).Code)
	})

	t.Run("invalid processing status is rejected", func(t *testing.T) {
		rec := request(t, router, http.MethodPatch, "/api/documents/"+record.DocumentID.String(), map[string]any{
			"processing_status": "archived",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteDocument(t *testing.T) {
	router := setUpRouter(t)

	record := previewRecord(t, router, t.Name())
	rec := request(t, router, http.MethodPost, "/api/documents", record)
	assert.Equal(t, http.StatusCreated, rec.Code)

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := request(t, router, http.MethodDelete, "/api/documents/"+record.DocumentID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = request(t, router, http.MethodDelete, "/api/documents/"+record.DocumentID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = request(t, router, http.MethodGet, "/api/documents/"+record.DocumentID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsAndHealth(t *testing.T) {
	router := setUpRouter(t)

	t.Run("stats on empty collection", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/stats", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		stats := &types.CollectionStats{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), stats))
		assert.Equal(t, int64(0), stats.TotalDocuments)
		assert.Empty(t, stats.ContentTypes)
	})

	t.Run("healthcheck", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/healthcheck", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
