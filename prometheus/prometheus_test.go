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

//go:build !root

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestUpdateMetrics tests that each update lands in its own labelled series.
func TestUpdateMetrics(t *testing.T) {
	prom := &Prometheus{}
	if err := prom.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	if prom.Listen != DefaultPrometheusListen {
		t.Errorf("unexpected listen: %s", prom.Listen)
	}

	prom.UpdateMigrationsTotal("spot_edf")
	prom.UpdateMigrationsTotal("spot_edf")
	prom.UpdateMigrationsTotal("measured_edf")
	prom.UpdateDiagnosticsTotal("resource")
	prom.UpdateExpressionsTotal("call")

	if v := testutil.ToFloat64(prom.migrationsTotal.WithLabelValues("spot_edf")); v != 2 {
		t.Errorf("expected 2 spot_edf migrations, got %v", v)
	}
	if v := testutil.ToFloat64(prom.migrationsTotal.WithLabelValues("measured_edf")); v != 1 {
		t.Errorf("expected 1 measured_edf migration, got %v", v)
	}

	// Get a list of metrics collected by Prometheus.
	metrics, err := prom.Gatherer().Gather()
	if err != nil {
		t.Errorf("error while gathering metrics: %s", err)
		return
	}

	// expectedMetrics maps each metric name to the number of series.
	expectedMetrics := map[string]int{
		"mdlast_migrations_total":           2,
		"mdlast_diagnostics_total":          1,
		"mdlast_expressions_total":          1,
		"mdlast_process_start_time_seconds": 1,
	}
	for _, metric := range metrics {
		count, exists := expectedMetrics[metric.GetName()]
		if !exists {
			t.Errorf("unexpected metric: %s", metric.GetName())
			continue
		}
		if len(metric.Metric) != count {
			t.Errorf("with: %s, expected %d metrics, got %d metrics", metric.GetName(), count, len(metric.Metric))
		}
		delete(expectedMetrics, metric.GetName())
	}
	for name := range expectedMetrics {
		t.Errorf("missing metric: %s", name)
	}
}

// TestNilPrometheus tests that a disabled instance ignores updates.
func TestNilPrometheus(t *testing.T) {
	var prom *Prometheus
	prom.UpdateMigrationsTotal("spot_edf")
	prom.UpdateDiagnosticsTotal("database")
	prom.UpdateExpressionsTotal("constant")
	if err := prom.Stop(); err != nil {
		t.Errorf("stop failed: %+v", err)
	}
}
