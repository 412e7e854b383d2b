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

package httpapi

import (
	"net/http"
	"strconv"
	gotime "time"

	"github.com/gin-gonic/gin"

	"github.com/scriptorium-team/scriptorium/api/types"
	pkgerrors "github.com/scriptorium-team/scriptorium/pkg/errors"
	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
	"github.com/scriptorium-team/scriptorium/server/documents"
	"github.com/scriptorium-team/scriptorium/server/logging"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler serves the document store API over HTTP.
type Handler struct {
	backend *backend.Backend
}

// NewHandler creates a new instance of Handler.
func NewHandler(be *backend.Backend) *Handler {
	return &Handler{backend: be}
}

// CreateDocument inserts the submitted record into the store.
func (h *Handler) CreateDocument(c *gin.Context) {
	start := gotime.Now()

	record := &types.DocumentRecord{}
	if err := c.ShouldBindJSON(record); err != nil {
		respondError(c, pkgerrors.InvalidArgument(err.Error()).WithCode("ErrInvalidRequest"))
		return
	}

	key, err := documents.Create(c.Request.Context(), h.backend, record)
	if err != nil {
		logging.LogRequestError(logging.DefaultLogger(), c.FullPath(), gotime.Since(start), err)
		respondError(c, err)
		return
	}

	h.backend.Metrics.ObserveIngestResponseSeconds(gotime.Since(start).Seconds())

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"insertedId": key,
	})
}

// PreviewDocument normalizes the pasted text and returns the record that a
// subsequent submit would insert, without persisting it.
func (h *Handler) PreviewDocument(c *gin.Context) {
	fields := &types.CreateDocumentFields{}
	if err := c.ShouldBindJSON(fields); err != nil {
		respondError(c, pkgerrors.InvalidArgument(err.Error()).WithCode("ErrInvalidRequest"))
		return
	}

	record, err := documents.Preview(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListDocuments returns paginated document summaries, newest first. The full
// text is never included.
func (h *Handler) ListDocuments(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultListLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	if offset < 0 {
		offset = 0
	}

	filter := database.Filter{
		Author:           c.Query("author"),
		ProcessingStatus: c.Query("processing_status"),
	}
	if contentType := c.Query("content_type"); contentType != "" {
		if !types.IsValidContentType(types.ContentType(contentType)) {
			respondError(c, pkgerrors.InvalidArgument(
				"invalid content type: "+contentType,
			).WithCode("ErrInvalidContentType"))
			return
		}
		filter.ContentType = types.ContentType(contentType)
	}

	summaries, err := documents.List(c.Request.Context(), h.backend, filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": summaries,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetDocument returns the full record of the given id.
func (h *Handler) GetDocument(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := documents.Get(c.Request.Context(), h.backend, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateDocument merges the submitted fields into the stored record and
// returns the updated record.
func (h *Handler) UpdateDocument(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	fields := &types.UpdatableDocumentFields{}
	if err := c.ShouldBindJSON(fields); err != nil {
		respondError(c, pkgerrors.InvalidArgument(err.Error()).WithCode("ErrInvalidRequest"))
		return
	}

	record, err := documents.Update(c.Request.Context(), h.backend, id, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteDocument removes the record of the given id. Deleting an absent
// record succeeds.
func (h *Handler) DeleteDocument(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := documents.Delete(c.Request.Context(), h.backend, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats returns aggregate statistics over the whole collection.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := documents.Stats(c.Request.Context(), h.backend)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck reports connectivity with the backing store.
func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.backend.Ping(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func pathID(c *gin.Context) (types.ID, error) {
	id := types.ID(c.Param("id"))
	if err := id.Validate(); err != nil {
		return "", pkgerrors.InvalidArgument(err.Error()).WithCode("ErrInvalidDocumentID")
	}
	return id, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.InvalidArgument(
			"invalid "+name+" parameter: "+raw,
		).WithCode("ErrInvalidRequest")
	}

	return value, nil
}
