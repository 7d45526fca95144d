package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/atomsnap-go/internal/bench/config"
	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

// ErrAlreadyRun is returned by Run on every call after the first.
var ErrAlreadyRun = errors.New("driver: already run")

// SourceFunc builds the payload source for one writer.
type SourceFunc func(writer int) atomicsnap.Source[int]

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger. The run ID is attached to every record.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithObserver forwards scan and update events to obs, for example a
// metric.Registry.
func WithObserver(obs atomicsnap.Observer) Option {
	return func(d *Driver) {
		d.scans.next = obs
	}
}

// WithSeed fixes the seed of the per-writer payload generators.
func WithSeed(seed uint64) Option {
	return func(d *Driver) {
		d.seed = seed
	}
}

// WithSource replaces the random payload sources.
func WithSource(fn SourceFunc) Option {
	return func(d *Driver) {
		d.source = fn
	}
}

// Driver coordinates one benchmark run.
type Driver struct {
	cfg      config.BenchSection
	obj      *atomicsnap.Object[int]
	updaters []*atomicsnap.Updater[int]
	start    *atomicsnap.Latch
	stop     *atomicsnap.StopFlag

	halt     chan struct{}
	haltOnce sync.Once
	ran      atomic.Bool

	runID  ulid.ULID
	seed   uint64
	source SourceFunc
	logger *slog.Logger
	scans  scanCounter
}

// New allocates the object and one updater per writer. No goroutine is
// started until Run.
func New(cfg config.BenchSection, opts ...Option) (*Driver, error) {
	if err := config.VerifyBench(&cfg); err != nil {
		return nil, fmt.Errorf("invalid bench config: %w", err)
	}

	d := &Driver{
		cfg:    cfg,
		start:  atomicsnap.NewLatch(),
		stop:   &atomicsnap.StopFlag{},
		halt:   make(chan struct{}),
		runID:  ulid.Make(),
		seed:   rand.Uint64(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.source == nil {
		d.source = d.randomSource
	}
	d.logger = d.logger.With("run_id", d.runID.String())

	obj, err := atomicsnap.New[int](cfg.Writers,
		atomicsnap.WithLabelModulus(cfg.LabelModulus),
		atomicsnap.WithObserver(&d.scans),
	)
	if err != nil {
		return nil, err
	}
	d.obj = obj

	d.updaters = make([]*atomicsnap.Updater[int], cfg.Writers)
	for i := range d.updaters {
		w, err := obj.Writer(i)
		if err != nil {
			return nil, err
		}
		d.updaters[i] = atomicsnap.NewUpdater(w, d.source(i), d.pacer())
	}
	return d, nil
}

// RunID returns the identifier of this run.
func (d *Driver) RunID() string {
	return d.runID.String()
}

// Object returns the snapshot object under test.
func (d *Driver) Object() *atomicsnap.Object[int] {
	return d.obj
}

// Updates returns the number of updates completed so far. It is a
// progress reading only; Result holds the final count.
func (d *Driver) Updates() uint64 {
	var n uint64
	for _, u := range d.updaters {
		n += u.Count()
	}
	return n
}

// Stop ends the run before its duration elapses. It may be called at any
// time, including before Run, and more than once.
func (d *Driver) Stop() {
	d.haltOnce.Do(func() {
		close(d.halt)
	})
}

// Run executes the benchmark and blocks until every updater has returned.
// If an updater fails, the run stops early and Run returns the partial
// result together with the first error. Cancelling ctx also stops the run
// early but is not an error.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if !d.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for _, u := range d.updaters {
		g.Go(func() error {
			return u.Run(gctx, d.start, d.stop)
		})
	}

	d.logger.Info("run started",
		"writers", d.cfg.Writers,
		"duration", d.cfg.Duration,
		"update_rate", d.cfg.UpdateRate,
	)

	select {
	case <-d.halt:
		d.stop.Stop()
	default:
	}

	began := time.Now()
	d.start.Release()

	timer := time.NewTimer(d.cfg.Duration)
	defer timer.Stop()

	early := true
	select {
	case <-timer.C:
		early = false
	case <-d.halt:
		d.logger.Info("run stopped early")
	case <-gctx.Done():
		if ctx.Err() != nil {
			d.logger.Info("run cancelled", "reason", ctx.Err())
		}
	}

	d.stop.Stop()
	cancel()
	err := g.Wait()
	elapsed := time.Since(began)

	res := d.result(elapsed, early)
	if err != nil {
		d.logger.Error("run failed", "error", err, "total_updates", res.TotalUpdates)
		return res, err
	}
	d.logger.Info("run finished",
		"total_updates", res.TotalUpdates,
		"elapsed", res.Elapsed,
		"throughput", res.Throughput,
		"stolen_scans", res.StolenScans,
	)
	return res, nil
}

func (d *Driver) result(elapsed time.Duration, early bool) *Result {
	res := &Result{
		RunID:        d.runID.String(),
		Writers:      d.cfg.Writers,
		Duration:     d.cfg.Duration,
		Elapsed:      elapsed,
		PerWriter:    make([]uint64, len(d.updaters)),
		CleanScans:   d.scans.clean.Load(),
		StolenScans:  d.scans.stolen.Load(),
		StoppedEarly: early,
	}
	for i, u := range d.updaters {
		res.PerWriter[i] = u.Count()
		res.TotalUpdates += res.PerWriter[i]
	}
	if s := elapsed.Seconds(); s > 0 {
		res.Throughput = float64(res.TotalUpdates) / s
	}

	// Every updater has returned, so this scan completes in one double collect.
	res.FinalView = d.obj.Scan()
	res.ViewDigest = Digest(res.FinalView)
	return res
}

func (d *Driver) pacer() atomicsnap.Pacer {
	if d.cfg.UpdateRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(d.cfg.UpdateRate), d.cfg.UpdateBurst)
}

// randomSource draws payloads uniformly from [0, PayloadMax). Each writer
// owns its generator.
func (d *Driver) randomSource(writer int) atomicsnap.Source[int] {
	rng := rand.New(rand.NewPCG(d.seed, uint64(writer)))
	limit := d.cfg.PayloadMax
	return func() (int, error) {
		return rng.IntN(limit), nil
	}
}

// scanCounter tallies scan outcomes and forwards events.
type scanCounter struct {
	clean  atomic.Uint64
	stolen atomic.Uint64
	next   atomicsnap.Observer
}

func (c *scanCounter) ObserveScan(stats atomicsnap.ScanStats) {
	if stats.Stolen {
		c.stolen.Add(1)
	} else {
		c.clean.Add(1)
	}
	if c.next != nil {
		c.next.ObserveScan(stats)
	}
}

func (c *scanCounter) ObserveUpdate(writer int) {
	if c.next != nil {
		c.next.ObserveUpdate(writer)
	}
}
