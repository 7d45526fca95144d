package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Progress draws a single-line bar for a fixed-duration run.
type Progress struct {
	w     io.Writer
	title string
	total time.Duration
	width int
	mu    sync.Mutex
}

// NewProgress creates a bar that reaches 100% after total.
func NewProgress(w io.Writer, title string, total time.Duration) *Progress {
	return &Progress{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Update redraws the bar for the elapsed time and update count.
func (p *Progress) Update(elapsed time.Duration, updates uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(elapsed, updates)
}

// Finish draws the final state and ends the line.
func (p *Progress) Finish(elapsed time.Duration, updates uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(elapsed, updates)
	fmt.Fprintln(p.w)
}

// Track redraws the bar every interval with counts from fn until stop is
// closed. It does not draw the final state.
func (p *Progress) Track(interval time.Duration, fn func() uint64, stop <-chan struct{}) {
	began := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Update(time.Since(began), fn())
		case <-stop:
			return
		}
	}
}

func (p *Progress) render(elapsed time.Duration, updates uint64) {
	percent := 1.0
	if p.total > 0 {
		percent = min(float64(elapsed)/float64(p.total), 1)
	}
	filled := int(float64(p.width) * percent)

	fmt.Fprintf(p.w, "\r%s [%s%s] %3.0f%% %s/%s %s updates",
		p.title,
		strings.Repeat("█", filled),
		strings.Repeat("░", p.width-filled),
		percent*100,
		elapsed.Truncate(time.Second),
		p.total,
		formatCount(updates),
	)
}

// formatCount abbreviates large counts: 1234567 -> 1.2M.
func formatCount(n uint64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "kMGTPE"[exp])
}
