// Package progress reports batch scan progress on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	barWidth       = 30
	maxDescription = 50
	renderInterval = 100 * time.Millisecond
)

// Tracker counts finished items of a batch. On a terminal it redraws a single
// bar in place; otherwise every completion is written on its own line.
type Tracker struct {
	mu          sync.Mutex
	output      io.Writer
	interactive bool
	total       int
	done        int
	current     string
	lastRender  time.Time
}

// NewTrackerTo creates a tracker writing to w
func NewTrackerTo(w io.Writer, total int, interactive bool) *Tracker {
	return &Tracker{
		output:      w,
		interactive: interactive,
		total:       total,
	}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Start announces the item a worker is picking up. Plain output stays quiet
// until the item completes.
func (t *Tracker) Start(description string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = description
	if t.interactive && time.Since(t.lastRender) > renderInterval {
		t.render()
	}
}

// Complete marks one item as finished
func (t *Tracker) Complete(description, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done < t.total {
		t.done++
	}
	t.current = description

	if !t.interactive {
		fmt.Fprintf(t.output, "[%d/%d] %s: %s\n", t.done, t.total, description, message)
		return
	}
	t.render()
}

// Finish ends the live display
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interactive {
		t.current = "done"
		t.render()
		fmt.Fprintln(t.output)
	}
}

func (t *Tracker) percent() float64 {
	if t.total <= 0 {
		return 100.0
	}
	return float64(t.done) / float64(t.total) * 100.0
}

// render must be called with mu held
func (t *Tracker) render() {
	fmt.Fprintf(t.output, "\r\033[K%s %5.1f%% (%d/%d) %s",
		Bar(t.percent(), barWidth), t.percent(), t.done, t.total, truncate(t.current, maxDescription))
	t.lastRender = time.Now()
}

// Bar draws a [=====>    ] style bar
func Bar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	completed := int(percent / 100.0 * float64(width))

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < width; i++ {
		switch {
		case i < completed:
			sb.WriteByte('=')
		case i == completed:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
