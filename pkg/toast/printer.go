package toast

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// Printer publishes toasts as colored lines, for one-shot CLI commands where
// nothing stays on screen long enough to dismiss.
type Printer struct {
	Out    io.Writer
	lastID int64
}

func (p *Printer) Publish(message string, severity Severity) Toast {
	out := p.Out
	if out == nil {
		out = color.Error
	}
	var c *color.Color
	switch severity {
	case Success:
		c = color.New(color.FgGreen)
	case Error:
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	_, _ = c.Fprintln(out, message)

	now := time.Now()
	id := now.UnixMilli()
	for {
		last := atomic.LoadInt64(&p.lastID)
		if id <= last {
			id = last + 1
		}
		if atomic.CompareAndSwapInt64(&p.lastID, last, id) {
			break
		}
	}
	return Toast{ID: id, Message: message, Severity: severity, Created: now}
}

var (
	_ Publisher = (*Queue)(nil)
	_ Publisher = (*Printer)(nil)
)
