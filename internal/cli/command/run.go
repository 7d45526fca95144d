package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/atomsnap-go/internal/bench/config"
	"github.com/yndnr/atomsnap-go/internal/bench/driver"
	"github.com/yndnr/atomsnap-go/internal/cli/output"
	"github.com/yndnr/atomsnap-go/internal/infra/confloader"
	"github.com/yndnr/atomsnap-go/internal/infra/shutdown"
	"github.com/yndnr/atomsnap-go/internal/telemetry/logger"
	"github.com/yndnr/atomsnap-go/internal/telemetry/metric"
)

const (
	shutdownTimeout  = 5 * time.Second
	progressInterval = 200 * time.Millisecond
)

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run updaters against a snapshot object and print the total update count",
		ArgsUsage: "[WRITERS]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "writers",
				Aliases: []string{"n"},
				Usage:   "Number of registers and updaters (default GOMAXPROCS)",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "How long the updaters run",
				Value:   config.DefaultDuration,
			},
			&cli.IntFlag{
				Name:  "payload-max",
				Usage: "Payloads are drawn from [0, payload-max)",
				Value: config.DefaultPayloadMax,
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Per-writer update limit in updates per second (0 is unlimited)",
			},
			&cli.IntFlag{
				Name:  "burst",
				Usage: "Rate limiter burst",
				Value: config.DefaultUpdateBurst,
			},
			&cli.Uint64Flag{
				Name:  "label-modulus",
				Usage: "Register label wraparound",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: plain, table, json, yaml",
				Value:   config.DefaultOutputFormat,
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file when the run ends",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address during the run",
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Apply log.level changes from the config file during the run",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Draw a progress bar on stderr",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	overrides := flagOverrides(c)
	if err := writersArg(c, overrides); err != nil {
		return err
	}
	cfgPath := c.String("config")
	cfg, err := loadConfig(cfgPath, overrides)
	if err != nil {
		return err
	}

	format, err := output.NewFormatter(output.Format(cfg.Output.Format))
	if err != nil {
		return err
	}

	log, err := initLogger(cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}

	reg := metric.NewRegistry()
	reg.SetWriters(cfg.Bench.Writers)

	d, err := driver.New(cfg.Bench, driver.WithLogger(log.Slog()), driver.WithObserver(reg))
	if err != nil {
		return err
	}
	if err := reg.Register(metric.NewCollector(d.Object())); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	ctx := logger.WithRunID(c.Context, d.RunID())
	ctx = logger.WithLogger(ctx, log)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.Bool("watch-config") && cfgPath != "" {
		stop, err := watchLogLevel(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer stop()
	}

	if addr := c.String("metrics-addr"); addr != "" {
		stop, err := serveMetrics(ctx, addr, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	sh := shutdown.NewHandler(shutdownTimeout)
	sh.OnShutdown(func(context.Context) error {
		logger.L(ctx).Warn("signal received, stopping run")
		d.Stop()
		return nil
	})
	go sh.Wait(ctx)

	var finishProgress func(*driver.Result)
	if c.Bool("progress") {
		finishProgress = trackProgress(c, cfg, d)
	}

	res, runErr := d.Run(ctx)
	if finishProgress != nil {
		finishProgress(res)
	}
	if res == nil {
		return runErr
	}

	reg.RecordRun(res.TotalUpdates, res.Throughput)
	if path := cfg.Output.MetricsFile; path != "" {
		if err := reg.WriteTextfile(path); err != nil {
			return errors.Join(runErr, fmt.Errorf("write metrics file: %w", err))
		}
	}
	if err := format.Format(c.App.Writer, res); err != nil {
		return errors.Join(runErr, fmt.Errorf("write result: %w", err))
	}
	return runErr
}

// watchLogLevel re-reads path on change and applies its log.level.
func watchLogLevel(ctx context.Context, path string) (func(), error) {
	log := logger.L(ctx)
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, nil)
		if err != nil {
			log.Warn("ignoring changed config", "file", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return func() { w.Stop() }, nil
}

// serveMetrics exposes reg on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, reg *metric.Registry) (func(), error) {
	log := logger.L(ctx)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(sctx)
	}, nil
}

// trackProgress draws a bar on stderr until the returned func is called
// with the result.
func trackProgress(c *cli.Context, cfg *config.BenchConfig, d *driver.Driver) func(*driver.Result) {
	p := output.NewProgress(c.App.ErrWriter, "atomsnap", cfg.Bench.Duration)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Track(progressInterval, d.Updates, stop)
	}()

	return func(res *driver.Result) {
		close(stop)
		<-done
		if res != nil {
			p.Finish(res.Elapsed, res.TotalUpdates)
		}
	}
}
