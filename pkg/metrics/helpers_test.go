package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// sample gathers reg and returns the series of family name whose labels
// include every pair in want. It fails the test when no series matches.
func sample(t *testing.T, reg prometheus.Gatherer, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, series := range family.GetMetric() {
			if hasLabels(series, want) {
				return series
			}
		}
		require.Failf(t, "series not found", "%s has no series with labels %v", name, want)
	}
	require.Failf(t, "family not found", "%s was not gathered", name)
	return nil
}

func hasLabels(series *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(series.GetLabel()))
	for _, pair := range series.GetLabel() {
		got[pair.GetName()] = pair.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}
