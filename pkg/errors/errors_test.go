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

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeString(t *testing.T) {
	tests := []struct {
		name string
		code StatusCode
		want string
	}{
		{"InvalidArgument", ErrCodeInvalidArgument, "invalid_argument"},
		{"NotFound", ErrCodeNotFound, "not_found"},
		{"AlreadyExists", ErrCodeAlreadyExists, "already_exists"},
		{"FailedPrecondition", ErrCodeFailedPrecondition, "failed_precondition"},
		{"Internal", ErrCodeInternal, "internal"},
		{"Unavailable", ErrCodeUnavailable, "unavailable"},
		{"Unknown", StatusCode(99), "code_99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestStatusOf(t *testing.T) {
	t.Run("nil error has no status", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(nil))
	})

	t.Run("status error returns its status", func(t *testing.T) {
		err := NotFound("document not found")
		assert.Equal(t, ErrCodeNotFound, StatusOf(err))
	})

	t.Run("wrapped status error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("find document: %w", AlreadyExists("document already exists"))
		assert.Equal(t, ErrCodeAlreadyExists, StatusOf(err))
	})

	t.Run("plain error has no status", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(fmt.Errorf("plain")))
	})
}

func TestWithCode(t *testing.T) {
	err := AlreadyExists("document already exists").WithCode("ErrDocumentIDConflict")
	assert.Equal(t, "ErrDocumentIDConflict", err.Code())
	assert.Equal(t, ErrCodeAlreadyExists, err.Status())
	assert.Equal(t, "document already exists", err.Error())

	t.Run("code survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("insert: %w", err)
		assert.Equal(t, "ErrDocumentIDConflict", CodeOf(wrapped))
	})
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, ErrCodeInvalidArgument.IsClientError())
	assert.True(t, ErrCodeAlreadyExists.IsClientError())
	assert.False(t, ErrCodeUnavailable.IsClientError())
	assert.True(t, ErrCodeUnavailable.IsServerError())
	assert.True(t, ErrCodeInternal.IsServerError())
	assert.False(t, ErrCodeNotFound.IsServerError())
}
