// Package benchmarks provides memory footprint and construction benchmarks.
package benchmarks

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/loader"
	"github.com/comalice/tablefsm/internal/logger"
	"github.com/comalice/tablefsm/testutil"
)

func BenchmarkMemoryFlat(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			config := GenFlatConfig(n)
			numEngines := 100
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			engines := make([]*core.Engine, numEngines)
			for i := 0; i < numEngines; i++ {
				e, err := core.NewEngine(testutil.Static(config), testutil.NewScript(), core.WithLogger(logger.Discard()))
				if err != nil {
					b.Fatal(err)
				}
				engines[i] = e
			}
			runtime.GC()
			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			bytesPerEngine := (after.TotalAlloc - before.TotalAlloc) / uint64(numEngines)
			b.ReportMetric(float64(bytesPerEngine)/1024, "KB/engine")
			b.ReportMetric(float64(bytesPerEngine)/float64(n), "B/transition")
			runtime.KeepAlive(engines)
		})
	}
}

func BenchmarkNewEngine(b *testing.B) {
	for _, n := range []int{10, 1000} {
		b.Run(fmt.Sprintf("transitions=%d", n), func(b *testing.B) {
			l := testutil.Static(GenFlatConfig(n))
			src := testutil.NewScript()
			opt := core.WithLogger(logger.Discard())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := core.NewEngine(l, src, opt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLoadYAML(b *testing.B) {
	for _, n := range []int{10, 1000} {
		b.Run(fmt.Sprintf("transitions=%d", n), func(b *testing.B) {
			data := GenConfigYAML(n)
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := loader.NewReaderLoader(bytes.NewReader(data), loader.FormatYAML).Load(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
