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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/internal/validation"
	pkgerrors "github.com/scriptorium-team/scriptorium/pkg/errors"
)

// APIError is the error payload of the error envelope.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// httpStatusOf maps an error to the HTTP status code and the stable error
// code of its response.
func httpStatusOf(err error) (int, string) {
	var structErr *validation.StructError
	if errors.As(err, &structErr) {
		return http.StatusBadRequest, "ErrInvalidDocumentFields"
	}
	if errors.Is(err, types.ErrEmptyDocumentFields) {
		return http.StatusBadRequest, "ErrEmptyDocumentFields"
	}

	status := http.StatusInternalServerError
	switch pkgerrors.StatusOf(err) {
	case pkgerrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case pkgerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case pkgerrors.ErrCodeAlreadyExists:
		status = http.StatusConflict
	case pkgerrors.ErrCodeFailedPrecondition:
		status = http.StatusBadRequest
	case pkgerrors.ErrCodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	return status, pkgerrors.CodeOf(err)
}

func respondError(c *gin.Context, err error) {
	status, code := httpStatusOf(err)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: err.Error(),
			Code:    code,
		},
	})
}
