package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		RegisterCollectors(reg)
		RegisterCollectors(reg)
	})

	TaskTransitions.WithLabelValues("ASSIGNED").Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(TaskTransitions.WithLabelValues("ASSIGNED")))

	n, err := testutil.GatherAndCount(reg, "tasktracker_task_transitions_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
