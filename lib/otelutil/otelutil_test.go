package otelutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "brickprices-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestConnConfigEnabled(t *testing.T) {
	require.False(t, ConnConfig{}.Enabled())
	require.True(t, ConnConfig{HttpEndpoint: "http://localhost:4318"}.Enabled())
	require.True(t, ConnConfig{GrpcEndpoint: "http://localhost:4317"}.Enabled())
}

func TestSamplePerfStats(t *testing.T) {
	stats, err := SamplePerfStats(context.Background(), 0)
	if err != nil {
		t.Skipf("cpu usage is not available: %v", err)
	}
	require.Positive(t, stats.Goroutines)
	require.Positive(t, stats.LiveObjects)
	require.GreaterOrEqual(t, stats.CpuPercent, 0.0)
}
