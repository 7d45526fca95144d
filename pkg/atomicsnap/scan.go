package atomicsnap

import "slices"

// ScanStats describes how a scan finished.
type ScanStats struct {
	// Collects is the number of full collects performed, including the first.
	Collects int
	// Stolen is set when the result was borrowed from a writer's embedded view.
	Stolen bool
	// StolenFrom is the writer index the view was borrowed from, or -1.
	StolenFrom int
}

// Scan returns a linearizable view of every register's payload.
func (o *Object[T]) Scan() []T {
	view, _ := o.ScanStats()
	return view
}

// ScanStats is Scan that also reports how the view was obtained.
func (o *Object[T]) ScanStats() ([]T, ScanStats) {
	n := len(o.regs)
	stats := ScanStats{StolenFrom: -1}
	if n == 0 {
		return []T{}, stats
	}

	moved := make([]bool, n)
	old := o.collect(make([]*Value[T], n))
	cur := make([]*Value[T], n)
	stats.Collects = 1

	for {
		if o.beforeCollect != nil {
			o.beforeCollect(stats.Collects)
		}
		cur = o.collect(cur)
		stats.Collects++

		i := firstMoved(old, cur)
		if i < 0 {
			view := make([]T, n)
			for j, v := range cur {
				view[j] = v.payload
			}
			o.observeScan(stats)
			return view, stats
		}

		if moved[i] {
			// Register i moved twice since this scan began, so its latest
			// value embeds a scan that started after ours did.
			stats.Stolen = true
			stats.StolenFrom = i
			o.observeScan(stats)
			return slices.Clone(cur[i].view), stats
		}

		moved[i] = true
		old, cur = cur, old
	}
}

// firstMoved returns the first index whose label differs between the two
// collects, or -1 if none did.
func firstMoved[T any](old, cur []*Value[T]) int {
	for i := range old {
		if old[i].label != cur[i].label {
			return i
		}
	}
	return -1
}

func (o *Object[T]) observeScan(stats ScanStats) {
	if o.observer != nil {
		o.observer.ObserveScan(stats)
	}
}
