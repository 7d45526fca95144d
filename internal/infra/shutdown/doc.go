// Package shutdown stops a run cleanly on SIGINT or SIGTERM.
//
// Hooks registered with OnShutdown run in reverse order once a signal
// arrives. Wait also returns when its context ends, so a handler can
// guard a bounded run and be released when the run finishes on its own:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(context.Context) error { d.Stop(); return nil })
//	go h.Wait(runCtx)
package shutdown
