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
	"errors"
)

// StatusError represents an error that carries an error status.
// This interface allows for type-safe error handling with structured status codes.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

// errorWithStatus is the internal implementation of StatusError.
type errorWithStatus struct {
	err    error
	status StatusCode
	code   string
}

// Error returns the error message.
func (e errorWithStatus) Error() string {
	return e.err.Error()
}

// Status returns the error status.
func (e errorWithStatus) Status() StatusCode {
	return e.status
}

// Code returns the string representation of the error code.
func (e errorWithStatus) Code() string {
	return e.code
}

// Unwrap returns the underlying error for error chain compatibility.
func (e errorWithStatus) Unwrap() error {
	return e.err
}

// WithCode returns a new StatusError with the specified custom code.
func (e errorWithStatus) WithCode(code string) StatusError {
	return errorWithStatus{
		err:    e.err,
		status: e.status,
		code:   code,
	}
}

// newErrorWithStatus creates a new error with the specified status.
func newErrorWithStatus(err error, status StatusCode) StatusError {
	return errorWithStatus{
		err:    err,
		status: status,
		code:   "",
	}
}

// NotFound creates a new "not found" error.
// Use this when a requested resource does not exist.
func NotFound(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeNotFound)
}

// InvalidArgument creates a new "invalid argument" error.
// Use this when the client provides invalid input parameters.
func InvalidArgument(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeInvalidArgument)
}

// AlreadyExists creates a new "already exists" error.
// Use this when attempting to create a resource that already exists.
func AlreadyExists(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeAlreadyExists)
}

// FailedPrecond creates a new "failed precondition" error.
// Use this when the system is not in the required state for the operation.
func FailedPrecond(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeFailedPrecondition)
}

// Internal creates a new "internal" error.
// Use this for unexpected server-side failures.
func Internal(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeInternal)
}

// Unavailable creates a new "unavailable" error.
// Use this when the backing store is unreachable or temporarily unavailable.
func Unavailable(message string) StatusError {
	return newErrorWithStatus(errors.New(message), ErrCodeUnavailable)
}

// StatusOf extracts the error status from an error.
// If the error implements StatusError, it returns the error's status.
// If the error wraps a StatusError, it unwraps and returns the wrapped error's status.
// If no status is found, it returns 0 to indicate no status is available.
func StatusOf(err error) StatusCode {
	if err == nil {
		return 0
	}

	if statusErr, ok := err.(StatusError); ok {
		return statusErr.Status()
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}

	return 0
}

// CodeOf extracts the custom code from an error, if any.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}

	if statusErr, ok := err.(StatusError); ok {
		return statusErr.Code()
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code()
	}

	return ""
}
