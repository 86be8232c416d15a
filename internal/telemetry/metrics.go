/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SavesTotal counts document persistence attempts by backend and result.
	SavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vecho_document_saves_total",
		Help: "Document persistence attempts.",
	}, []string{"backend", "result"})

	// DocumentLoadsTotal counts bootstrap document loads by source.
	DocumentLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vecho_document_loads_total",
		Help: "Documents adopted at bootstrap, by source.",
	}, []string{"source"})

	// JobEventsTotal counts worker job-progress events applied to the job table.
	JobEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vecho_job_events_total",
		Help: "Worker job progress events reconciled.",
	})

	// JobsActive tracks jobs currently in a non-terminal state.
	JobsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vecho_jobs_active",
		Help: "Jobs in pending or processing state.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
