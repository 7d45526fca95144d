package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Fatal("registry field is nil")
	}

	body := scrape(t, r)
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestObserveScan(t *testing.T) {
	r := NewRegistry()
	r.SetWriters(3)

	r.ObserveScan(atomicsnap.ScanStats{Collects: 2, StolenFrom: -1})
	r.ObserveScan(atomicsnap.ScanStats{Collects: 2, StolenFrom: -1})
	r.ObserveScan(atomicsnap.ScanStats{Collects: 4, Stolen: true, StolenFrom: 1})
	r.ObserveScan(atomicsnap.ScanStats{Collects: 5, Stolen: true, StolenFrom: 7})

	if got := testutil.ToFloat64(r.ScansTotal.WithLabelValues("clean")); got != 2 {
		t.Errorf("clean scans = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.ScansTotal.WithLabelValues("stolen")); got != 2 {
		t.Errorf("stolen scans = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.StealsTotal.WithLabelValues("1")); got != 1 {
		t.Errorf("steals from writer 1 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.StealsTotal.WithLabelValues("7")); got != 1 {
		t.Errorf("steals from writer 7 = %v, want 1", got)
	}

	body := scrape(t, r)
	if !strings.Contains(body, "atomsnap_scan_collects_count 4") {
		t.Error("expected atomsnap_scan_collects_count 4")
	}
	if !strings.Contains(body, "atomsnap_scan_collects_sum 13") {
		t.Error("expected atomsnap_scan_collects_sum 13")
	}
}

func TestObserveUpdate(t *testing.T) {
	r := NewRegistry()
	r.SetWriters(2)

	r.ObserveUpdate(0)
	r.ObserveUpdate(1)
	r.ObserveUpdate(1)
	r.ObserveUpdate(5)

	body := scrape(t, r)
	for _, want := range []string{
		`atomsnap_updates_total{writer="0"} 1`,
		`atomsnap_updates_total{writer="1"} 2`,
		`atomsnap_updates_total{writer="5"} 1`,
		"atomsnap_writers 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()
	r.RecordRun(1200, 20)
	r.RecordRun(600, 10)

	if got := testutil.ToFloat64(r.RunsTotal); got != 2 {
		t.Errorf("runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.LastRunUpdates); got != 600 {
		t.Errorf("last run updates = %v, want 600", got)
	}
	if got := testutil.ToFloat64(r.LastRunRate); got != 10 {
		t.Errorf("last run rate = %v, want 10", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.SetWriters(1)
	r.ObserveUpdate(0)

	path := filepath.Join(t.TempDir(), "atomsnap.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `atomsnap_updates_total{writer="0"} 1`) {
		t.Errorf("textfile missing update counter:\n%s", data)
	}
}

func TestObjectReportsToRegistry(t *testing.T) {
	r := NewRegistry()
	r.SetWriters(2)
	obj, err := atomicsnap.New[int](2, atomicsnap.WithObserver(r))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		w, _ := obj.Writer(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				w.Update(j)
			}
		}()
	}
	wg.Wait()

	for _, w := range []string{"0", "1"} {
		if got := testutil.ToFloat64(r.UpdatesTotal.WithLabelValues(w)); got != 100 {
			t.Errorf("updates for writer %s = %v, want 100", w, got)
		}
	}
	clean := testutil.ToFloat64(r.ScansTotal.WithLabelValues("clean"))
	stolen := testutil.ToFloat64(r.ScansTotal.WithLabelValues("stolen"))
	if clean+stolen != 200 {
		t.Errorf("scans = %v, want 200", clean+stolen)
	}
}
