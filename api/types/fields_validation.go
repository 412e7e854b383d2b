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
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/scriptorium-team/scriptorium/internal/validation"
)

// Validate validates the record before it reaches the store layer.
func (r *DocumentRecord) Validate() error {
	return validation.ValidateStruct(r)
}

func init() {
	if err := validation.RegisterValidation("contenttype", func(level validator.FieldLevel) bool {
		return IsValidContentType(ContentType(level.Field().String()))
	}); err != nil {
		fmt.Fprintln(os.Stderr, "validation contenttype: %w", err)
		os.Exit(1)
	}
	if err := validation.RegisterTranslation(
		"contenttype",
		"{0} must be one of book, article, essay, poetry, speech, letter, transcript, other",
	); err != nil {
		fmt.Fprintln(os.Stderr, "validation contenttype: %w", err)
		os.Exit(1)
	}
}
