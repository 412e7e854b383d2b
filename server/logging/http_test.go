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

package logging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/scriptorium-team/scriptorium/pkg/errors"
)

func TestToRequestLogLevel(t *testing.T) {
	scenarios := []*struct {
		err      error
		expected RequestLogLevel
	}{
		{err: nil, expected: RequestLogDebug},
		{err: context.Canceled, expected: RequestLogDebug},
		{err: pkgerrors.InvalidArgument("bad input"), expected: RequestLogInfo},
		{err: pkgerrors.NotFound("missing"), expected: RequestLogInfo},
		{err: pkgerrors.AlreadyExists("duplicate"), expected: RequestLogInfo},
		{err: pkgerrors.Internal("broken"), expected: RequestLogError},
		{err: pkgerrors.Unavailable("store down"), expected: RequestLogError},
		{err: fmt.Errorf("wrapped: %w", pkgerrors.NotFound("missing")), expected: RequestLogInfo},
		{err: errors.New("unclassified"), expected: RequestLogWarn},
	}

	for _, scenario := range scenarios {
		assert.Equal(t, scenario.expected, toRequestLogLevel(scenario.err), "err: %v", scenario.err)
	}
}
