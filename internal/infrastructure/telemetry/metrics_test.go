package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/telemetry"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.ObserveMovement("SALIDA", "committed", 15*time.Millisecond)
	m.ObserveMovement("SALIDA", "rejected_insufficient_stock", time.Millisecond)
	m.ObserveMovement("SALIDA", "committed", 5*time.Millisecond)
	m.AddUnits("SALIDA", 7)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"inventario_movement_requests_total",
		"inventario_movement_duration_seconds",
		"inventario_movement_units_total",
	}, names)
	count, err := testutil.GatherAndCount(reg, "inventario_movement_requests_total", "inventario_movement_units_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSetupTracing_SinEndpoint(t *testing.T) {
	shutdown, err := telemetry.SetupTracing(context.Background(), config.TelemetryConfig{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
