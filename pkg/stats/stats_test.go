package stats_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/pkg/stats"
)

func TestSampleRuntime(t *testing.T) {
	s := stats.SampleRuntime()
	require.Positive(t, s.Goroutines)
	require.Positive(t, s.HeapAllocMB)
	require.GreaterOrEqual(t, s.Mallocs, s.Frees)
}

func TestDumpMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dumped_total",
		Help: "test counter",
	})
	registry.MustRegister(counter)
	counter.Add(3)

	path := filepath.Join(t.TempDir(), "metrics.txt")
	require.NoError(t, stats.DumpMetrics(registry, path))
	require.NoError(t, stats.DumpMetrics(registry, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(content), "dumped_total"))
}
