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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scriptorium-team/scriptorium/internal/version"
)

const (
	namespace        = "scriptorium"
	contentTypeLabel = "content_type"
	conflictLabel    = "conflict"
	methodLabel      = "method"
	pathLabel        = "path"
	codeLabel        = "code"
)

// Metrics manages the metric information that Scriptorium is trying to
// measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	documentsCreatedTotal   *prometheus.CounterVec
	documentsUpdatedTotal   prometheus.Counter
	documentsDeletedTotal   prometheus.Counter
	duplicatesRejectedTotal *prometheus.CounterVec

	ingestResponseSeconds prometheus.Histogram
	ingestedBytesTotal    prometheus.Counter

	requestsHandledTotal *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		documentsCreatedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "created_total",
			Help:      "The total number of document records inserted into the store.",
		}, []string{contentTypeLabel}),
		documentsUpdatedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "updated_total",
			Help:      "The total number of document record patches applied.",
		}),
		documentsDeletedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "deleted_total",
			Help:      "The total number of document records deleted.",
		}),
		duplicatesRejectedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "duplicates_rejected_total",
			Help:      "The total number of inserts rejected as duplicates, by conflict kind.",
		}, []string{conflictLabel}),
		ingestResponseSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "response_seconds",
			Help:      "The response time of document ingestion.",
		}),
		ingestedBytesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "bytes_total",
			Help:      "The total bytes of normalized text ingested.",
		}),
		requestsHandledTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_handled_total",
			Help:      "Total number of HTTP requests completed on the server, regardless of success or failure.",
		}, []string{methodLabel, pathLabel, codeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddDocumentsCreated adds the number of inserted document records.
func (m *Metrics) AddDocumentsCreated(contentType string) {
	m.documentsCreatedTotal.With(prometheus.Labels{
		contentTypeLabel: contentType,
	}).Inc()
}

// AddDocumentsUpdated adds the number of applied patches.
func (m *Metrics) AddDocumentsUpdated() {
	m.documentsUpdatedTotal.Inc()
}

// AddDocumentsDeleted adds the number of deleted document records.
func (m *Metrics) AddDocumentsDeleted() {
	m.documentsDeletedTotal.Inc()
}

// AddDuplicateRejected adds the number of inserts rejected as duplicates of
// the given conflict kind.
func (m *Metrics) AddDuplicateRejected(conflict string) {
	m.duplicatesRejectedTotal.With(prometheus.Labels{
		conflictLabel: conflict,
	}).Inc()
}

// ObserveIngestResponseSeconds adds an observation for response time of
// document ingestion.
func (m *Metrics) ObserveIngestResponseSeconds(seconds float64) {
	m.ingestResponseSeconds.Observe(seconds)
}

// AddIngestedBytes adds the byte size of normalized text that was ingested.
func (m *Metrics) AddIngestedBytes(bytes int) {
	m.ingestedBytesTotal.Add(float64(bytes))
}

// AddRequestsHandled adds the number of HTTP requests completed on the server.
func (m *Metrics) AddRequestsHandled(method, path, code string) {
	m.requestsHandledTotal.With(prometheus.Labels{
		methodLabel: method,
		pathLabel:   path,
		codeLabel:   code,
	}).Inc()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
