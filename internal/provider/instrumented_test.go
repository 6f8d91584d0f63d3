package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"fxrates/internal/rates"
)

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestInstrumentedSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	src := new(MockSource)
	src.On("Latest", mock.Anything).Return(eurSnapshot(day(2020, 1, 3), 1.22), nil).Once()
	src.On("LatestForBase", mock.Anything, "XYZ").Return(rates.Snapshot{}, ErrInvalidArgument).Once()

	inst, err := NewInstrumentedSource(src, mp.Meter("test"), "frankfurter")
	require.NoError(t, err)

	_, err = inst.Latest(context.Background())
	require.NoError(t, err)
	_, err = inst.LatestForBase(context.Background(), "XYZ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(2), sumOf(t, rm, "fxrates.source.requests"))
	assert.Equal(t, int64(1), sumOf(t, rm, "fxrates.source.errors"))
	src.AssertExpectations(t)
}
