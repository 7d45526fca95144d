package atomicsnap

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// onRound installs a collect hook that is not re-entered by the nested
// scans writers perform inside it.
func onRound[T any](obj *Object[T], fn func(collects int)) {
	inHook := false
	obj.beforeCollect = func(collects int) {
		if inHook {
			return
		}
		inHook = true
		defer func() { inHook = false }()
		fn(collects)
	}
}

func TestScan_ConcreteScenario(t *testing.T) {
	obj, _ := New[int](3)
	w1, _ := obj.Writer(1)
	w2, _ := obj.Writer(2)

	if got := obj.Scan(); !slices.Equal(got, []int{0, 0, 0}) {
		t.Fatalf("initial Scan() = %v, want [0 0 0]", got)
	}

	w1.Update(7)
	if got := obj.Scan(); !slices.Equal(got, []int{0, 7, 0}) {
		t.Errorf("Scan() = %v, want [0 7 0]", got)
	}

	w2.Update(9)
	if got := obj.Scan(); !slices.Equal(got, []int{0, 7, 9}) {
		t.Errorf("Scan() = %v, want [0 7 9]", got)
	}
}

func TestScan_CleanDoubleCollect(t *testing.T) {
	obj, _ := New[int](4)
	w, _ := obj.Writer(3)
	w.Update(11)

	view, stats := obj.ScanStats()
	if !slices.Equal(view, []int{0, 0, 0, 11}) {
		t.Errorf("view = %v, want [0 0 0 11]", view)
	}
	if stats.Collects != 2 || stats.Stolen || stats.StolenFrom != -1 {
		t.Errorf("stats = %+v, want {Collects:2 Stolen:false StolenFrom:-1}", stats)
	}
}

func TestScan_RestartAfterSingleMove(t *testing.T) {
	obj, _ := New[int](2)
	w0, _ := obj.Writer(0)

	onRound(obj, func(collects int) {
		if collects == 1 {
			w0.Update(5)
		}
	})

	view, stats := obj.ScanStats()
	if !slices.Equal(view, []int{5, 0}) {
		t.Errorf("view = %v, want [5 0]", view)
	}
	if stats.Collects != 3 || stats.Stolen {
		t.Errorf("stats = %+v, want 3 clean collects", stats)
	}
}

func TestScan_StealsEmbeddedView(t *testing.T) {
	obj, _ := New[int](2)
	w0, _ := obj.Writer(0)

	// Writer 0 updates twice while the scan is in progress; writer 1 never does.
	onRound(obj, func(collects int) {
		switch collects {
		case 1:
			w0.Update(10)
		case 2:
			w0.Update(20)
		}
	})

	view, stats := obj.ScanStats()
	if !stats.Stolen || stats.StolenFrom != 0 {
		t.Fatalf("stats = %+v, want stolen from writer 0", stats)
	}

	second := obj.Load(0)
	if second.Label() != 2 {
		t.Fatalf("writer 0 label = %d, want 2", second.Label())
	}
	if want := second.View(); !slices.Equal(view, want) {
		t.Errorf("view = %v, want writer 0's second embedded view %v", view, want)
	}
	if view[0] != 10 || view[1] != 0 {
		t.Errorf("view = %v, want [10 0]", view)
	}
}

func TestScan_CollectBound(t *testing.T) {
	const n = 5
	obj, _ := New[int](n)
	writers := make([]*Writer[int], n)
	for i := range writers {
		writers[i], _ = obj.Writer(i)
	}

	// Move a different register before every collect: the scan marks each
	// index once and steals on the first repeat.
	onRound(obj, func(collects int) {
		w := writers[(collects-1)%n]
		w.Update(collects)
	})

	_, stats := obj.ScanStats()
	if stats.Collects != n+2 {
		t.Errorf("Collects = %d, want %d", stats.Collects, n+2)
	}
	if !stats.Stolen || stats.StolenFrom != 0 {
		t.Errorf("stats = %+v, want stolen from writer 0", stats)
	}
}

func TestScan_SelfConsistency(t *testing.T) {
	const n = 4
	obj, _ := New[int](n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w, _ := obj.Writer(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 1; j <= 500; j++ {
				w.Update(w.Index()*1000 + j)
			}
		}()
	}
	wg.Wait()

	// Writers are quiescent: a scan must match the registers exactly.
	view, stats := obj.ScanStats()
	if stats.Stolen {
		t.Errorf("quiescent scan was stolen: %+v", stats)
	}
	for i := 0; i < n; i++ {
		if got := obj.Load(i).Payload(); view[i] != got {
			t.Errorf("view[%d] = %d, register holds %d", i, view[i], got)
		}
	}
}

func TestScan_WaitFreeUnderContention(t *testing.T) {
	const n = 4
	obj, _ := New[int](n)
	stop := &StopFlag{}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w, _ := obj.Writer(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; !stop.Stopped(); j++ {
				w.Update(j)
			}
		}()
	}

	var maxCollects int
	for k := 0; k < 2000; k++ {
		start := time.Now()
		view, stats := obj.ScanStats()
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("scan %d took %v", k, elapsed)
		}
		if len(view) != n {
			t.Fatalf("scan %d returned %d values, want %d", k, len(view), n)
		}
		maxCollects = max(maxCollects, stats.Collects)
	}
	stop.Stop()
	wg.Wait()

	if maxCollects > n+2 {
		t.Errorf("max collects = %d, want <= %d", maxCollects, n+2)
	}
}

// Writers publish strictly increasing payloads, so any two results of a
// linearizable scan must be ordered component-wise, and a single reader's
// successive results must never go backwards.
func TestScan_Linearizable(t *testing.T) {
	const (
		n       = 4
		readers = 3
		scans   = 300
	)
	obj, _ := New[int](n)
	stop := &StopFlag{}

	var writersWG sync.WaitGroup
	for i := 0; i < n; i++ {
		w, _ := obj.Writer(i)
		writersWG.Add(1)
		go func() {
			defer writersWG.Done()
			for j := 1; !stop.Stopped(); j++ {
				w.Update(j)
			}
		}()
	}

	results := make([][][]int, readers)
	var readersWG sync.WaitGroup
	for r := 0; r < readers; r++ {
		readersWG.Add(1)
		go func() {
			defer readersWG.Done()
			for k := 0; k < scans; k++ {
				results[r] = append(results[r], obj.Scan())
			}
		}()
	}
	readersWG.Wait()
	stop.Stop()
	writersWG.Wait()

	var all [][]int
	for r, rs := range results {
		for k := 1; k < len(rs); k++ {
			if !leq(rs[k-1], rs[k]) {
				t.Fatalf("reader %d went backwards: %v then %v", r, rs[k-1], rs[k])
			}
		}
		all = append(all, rs...)
	}
	for a := 0; a < len(all); a++ {
		for b := a + 1; b < len(all); b++ {
			if !leq(all[a], all[b]) && !leq(all[b], all[a]) {
				t.Fatalf("incomparable snapshots %v and %v", all[a], all[b])
			}
		}
	}
}

func TestScan_NoLostUpdates(t *testing.T) {
	const (
		n = 6
		m = 200
	)
	obj, _ := New[int](n)

	var wg sync.WaitGroup
	var total atomic.Int64
	for i := 0; i < n; i++ {
		w, _ := obj.Writer(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 1; j <= m; j++ {
				w.Update(j)
				total.Add(1)
			}
		}()
	}
	wg.Wait()

	if total.Load() != n*m {
		t.Errorf("total = %d, want %d", total.Load(), n*m)
	}
	for i := 0; i < n; i++ {
		v := obj.Load(i)
		if v.Label() != m || v.Payload() != m {
			t.Errorf("register %d = {label %d, payload %d}, want {%d %d}", i, v.Label(), v.Payload(), m, m)
		}
		if len(v.View()) != n {
			t.Errorf("register %d view length = %d, want %d", i, len(v.View()), n)
		}
	}
}

func leq(a, b []int) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func BenchmarkScan(b *testing.B) {
	obj, _ := New[int](8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj.Scan()
	}
}

func BenchmarkUpdate(b *testing.B) {
	obj, _ := New[int](8)
	w, _ := obj.Writer(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Update(i)
	}
}

func BenchmarkScanContended(b *testing.B) {
	const n = 4
	obj, _ := New[int](n)
	stop := &StopFlag{}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w, _ := obj.Writer(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; !stop.Stopped(); j++ {
				w.Update(j)
			}
		}()
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			obj.Scan()
		}
	})
	b.StopTimer()
	stop.Stop()
	wg.Wait()
}
