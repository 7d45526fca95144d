package benchmark

import (
	"flag"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

var full = flag.Bool("full", false, "sweep WriterCounts instead of SmallWriterCounts")

// WriterCounts is the full sweep of object sizes.
var WriterCounts = []int{1, 2, 4, 8, 16, 32, 64, 256, 1024}

// SmallWriterCounts keeps CI runs short.
var SmallWriterCounts = []int{1, 4, 16}

func writerCounts() []int {
	if *full {
		return WriterCounts
	}
	return SmallWriterCounts
}

// runWithWriterCounts runs benchFn once per object size.
func runWithWriterCounts(b *testing.B, benchFn func(b *testing.B, writers int)) {
	for _, n := range writerCounts() {
		b.Run(fmt.Sprintf("writers_%d", n), func(b *testing.B) {
			benchFn(b, n)
		})
	}
}

// newObject returns an object whose registers have all been written once,
// so every register carries an embedded view.
func newObject(b *testing.B, writers int, opts ...atomicsnap.Option) (*atomicsnap.Object[int], []*atomicsnap.Writer[int]) {
	b.Helper()
	obj, err := atomicsnap.New[int](writers, opts...)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	ws := make([]*atomicsnap.Writer[int], writers)
	for i := range ws {
		if ws[i], err = obj.Writer(i); err != nil {
			b.Fatalf("Writer failed: %v", err)
		}
		ws[i].Update(i)
	}
	return obj, ws
}

// contend keeps every writer but the first `skip` updating until the
// returned stop func is called.
func contend(ws []*atomicsnap.Writer[int], skip int) (stop func()) {
	done := &atomicsnap.StopFlag{}
	var wg sync.WaitGroup
	for _, w := range ws[skip:] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; !done.Stopped(); j++ {
				w.Update(j)
			}
		}()
	}
	return func() {
		done.Stop()
		wg.Wait()
	}
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}
