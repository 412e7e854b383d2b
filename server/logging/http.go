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
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/scriptorium-team/scriptorium/pkg/errors"
)

// RequestLogLevel represents the severity level for request logging.
type RequestLogLevel int

const (
	RequestLogDebug RequestLogLevel = iota
	RequestLogInfo
	RequestLogWarn
	RequestLogError
)

// String returns the string representation of RequestLogLevel.
func (l RequestLogLevel) String() string {
	switch l {
	case RequestLogDebug:
		return "debug"
	case RequestLogInfo:
		return "info"
	case RequestLogError:
		return "error"
	}
	return "warn"
}

// toRequestLogLevel determines the appropriate log level based on the error
// classification. This centralizes the logic for request error severity.
func toRequestLogLevel(err error) RequestLogLevel {
	if err == nil {
		return RequestLogDebug
	}

	if errors.Is(err, context.Canceled) {
		return RequestLogDebug
	}

	var statusErr pkgerrors.StatusError
	if errors.As(err, &statusErr) {
		switch code := statusErr.Status(); {
		case code.IsClientError():
			return RequestLogInfo
		case code.IsServerError():
			return RequestLogError
		}
	}

	return RequestLogWarn
}

// LogRequestError logs request errors with the appropriate level based on
// the error classification.
func LogRequestError(logger *zap.SugaredLogger, route string, duration time.Duration, err error) {
	const template = "HTTP : %q %s => %q"
	switch toRequestLogLevel(err) {
	case RequestLogDebug:
		logger.Debugf(template, route, duration, err)
	case RequestLogInfo:
		logger.Infof(template, route, duration, err)
	case RequestLogWarn:
		logger.Warnf(template, route, duration, err)
	case RequestLogError:
		logger.Errorf(template, route, duration, err)
	default:
		logger.Warnf(template, route, duration, err)
	}
}

// LogRequestSuccess logs successful requests at debug level.
func LogRequestSuccess(logger *zap.SugaredLogger, route string, duration time.Duration) {
	logger.Debugf("HTTP : %q %s", route, duration)
}
