// Package driver runs a fixed-duration contention benchmark against an
// atomic snapshot object.
//
// A Driver owns one atomicsnap.Object[int] and one Updater per register.
// Run launches every updater, releases them together through the start
// latch, waits for the configured duration, raises the stop flag and
// joins them. The Result reports the total number of completed updates
// together with per-writer counts, scan outcomes and the final view.
//
// Usage:
//
//	d, err := driver.New(cfg.Bench, driver.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	res, err := d.Run(ctx)
package driver
