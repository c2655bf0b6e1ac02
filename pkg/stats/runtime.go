package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1 << 20

var (
	heapAlloc = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "runtime",
		Name:      "heap_alloc_megabytes",
		Help:      "Heap memory allocated by the daemon at the last sample.",
	})

	goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "runtime",
		Name:      "goroutines",
		Help:      "Goroutines running at the last sample.",
	})
)

// RuntimeSample is a snapshot of the daemon's memory usage.
type RuntimeSample struct {
	TotalAllocMB float64
	HeapAllocMB  float64
	Mallocs      uint64
	Frees        uint64
	Goroutines   int
}

// SampleRuntime reads the current runtime stats and updates the runtime
// gauges.
func SampleRuntime() RuntimeSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	sample := RuntimeSample{
		TotalAllocMB: float64(m.TotalAlloc) / megabyte,
		HeapAllocMB:  float64(m.HeapAlloc) / megabyte,
		Mallocs:      m.Mallocs,
		Frees:        m.Frees,
		Goroutines:   runtime.NumGoroutine(),
	}
	heapAlloc.Set(sample.HeapAllocMB)
	goroutines.Set(float64(sample.Goroutines))
	return sample
}

// EnableMemoryStatistics samples and logs the runtime stats every interval
// until ctx is done. If dumpFile is set, the gathered metrics are appended to
// it on exit.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, dumpFile string,
) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s := SampleRuntime()
				log.WithFields(log.Fields{
					"total_alloc_mb": s.TotalAllocMB,
					"heap_alloc_mb":  s.HeapAllocMB,
					"mallocs":        s.Mallocs,
					"frees":          s.Frees,
					"goroutines":     s.Goroutines,
				}).Info("runtime stats")
			case <-ctx.Done():
				if len(dumpFile) <= 0 {
					return
				}
				if err := DumpMetrics(prometheus.DefaultGatherer, dumpFile); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

// DumpMetrics appends every metric family gathered by g to the file at path,
// one per line.
func DumpMetrics(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, mf := range families {
		if _, err := w.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
