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

// Package types provides the types shared between the HTTP API and the
// document store.
package types

import (
	"errors"
	"fmt"

	"github.com/rs/xid"
)

var (
	// ErrInvalidID is returned when the given ID is not a valid document id.
	ErrInvalidID = errors.New("invalid ID")
)

// ID represents the identifier of a document record. It is generated at
// creation time from a timestamp and a random suffix, so ids are unique and
// sort roughly by creation order. It is immutable once assigned.
type ID string

// NewID creates a new document id.
func NewID() ID {
	return ID(xid.New().String())
}

// String returns a string representation of this ID.
func (id ID) String() string {
	return string(id)
}

// Validate returns an error if this ID is invalid.
func (id ID) Validate() error {
	if _, err := xid.FromString(string(id)); err != nil {
		return fmt.Errorf("%s: %w", id, ErrInvalidID)
	}

	return nil
}
