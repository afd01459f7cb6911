// Mdlast
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package prometheus provides functions that are useful to control and manage
// the built-in prometheus instance of the rewriter.
package prometheus

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/purpleidea/mdlast/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is registered in
// https://github.com/prometheus/prometheus/wiki/Default-port-allocations
const DefaultPrometheusListen = "127.0.0.1:9233"

// Prometheus is the struct that contains information about the
// prometheus instance. Run Init() on it. A nil *Prometheus is valid and
// ignores every update, so callers don't need to check if metrics are on.
type Prometheus struct {
	Listen string // the listen specification for the net/http server

	// Logf receives the errors of the http server. It may be nil.
	Logf func(format string, v ...interface{})

	registry *prometheus.Registry
	server   *http.Server

	migrationsTotal         *prometheus.CounterVec // total of version migrations that were applied
	diagnosticsTotal        *prometheus.CounterVec // total of diagnostics that were emitted
	expressionsTotal        *prometheus.CounterVec // total of expressions that were built
	processStartTimeSeconds prometheus.Gauge       // process start time in seconds since unix epoch
}

// Init some parameters - currently the Listen address.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	obj.registry = prometheus.NewRegistry()

	obj.migrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdlast_migrations_total",
			Help: "Number of version migrations that were applied.",
		},
		// rule: the name of the migration rule, eg: spot_edf
		[]string{"rule"},
	)
	obj.diagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdlast_diagnostics_total",
			Help: "Number of diagnostics that were emitted.",
		},
		// category: database or resource
		[]string{"category"},
	)
	obj.expressionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdlast_expressions_total",
			Help: "Number of input expressions that were rewritten.",
		},
		// kind: constant, call, parameter, direct_call
		[]string{"kind"},
	)
	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mdlast_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)

	for _, c := range []prometheus.Collector{
		obj.migrationsTotal,
		obj.diagnosticsTotal,
		obj.expressionsTotal,
		obj.processStartTimeSeconds,
	} {
		if err := obj.registry.Register(c); err != nil {
			return err
		}
	}
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	return nil
}

// Gatherer returns the registry that holds our metrics.
func (obj *Prometheus) Gatherer() prometheus.Gatherer {
	return obj.registry
}

// Start runs a http server in a go routine, that responds to /metrics
// as prometheus would expect.
func (obj *Prometheus) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{}))
	obj.server = &http.Server{
		Addr:              obj.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if obj.Logf != nil {
		obj.server.ErrorLog = log.New(&util.LogWriter{Prefix: "prometheus: ", Logf: obj.Logf}, "", 0)
	}
	go obj.server.ListenAndServe() // returns ErrServerClosed on Stop
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj == nil || obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}

// UpdateMigrationsTotal counts one applied migration of the named rule.
func (obj *Prometheus) UpdateMigrationsTotal(rule string) {
	if obj == nil || obj.migrationsTotal == nil {
		return
	}
	obj.migrationsTotal.With(prometheus.Labels{"rule": rule}).Inc()
}

// UpdateDiagnosticsTotal counts one emitted diagnostic of the category.
func (obj *Prometheus) UpdateDiagnosticsTotal(category string) {
	if obj == nil || obj.diagnosticsTotal == nil {
		return
	}
	obj.diagnosticsTotal.With(prometheus.Labels{"category": category}).Inc()
}

// UpdateExpressionsTotal counts one rewritten input expression of the kind.
func (obj *Prometheus) UpdateExpressionsTotal(kind string) {
	if obj == nil || obj.expressionsTotal == nil {
		return
	}
	obj.expressionsTotal.With(prometheus.Labels{"kind": kind}).Inc()
}
