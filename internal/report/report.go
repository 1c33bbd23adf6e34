// Package report prints console progress for sync runs.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Printer writes progress to Out and warnings to Err. It is safe for
// concurrent use.
type Printer struct {
	Out io.Writer
	Err io.Writer

	mu sync.Mutex
}

// New returns a Printer on stdout and stderr.
func New() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// Discard returns a Printer that drops everything.
func Discard() *Printer {
	return &Printer{Out: io.Discard, Err: io.Discard}
}

// Step starts a new section of output.
func (p *Printer) Step(format string, args ...any) {
	p.print(p.Out, "\n"+format+"\n", args...)
}

// Info prints an indented detail line.
func (p *Printer) Info(format string, args ...any) {
	p.print(p.Out, "  "+format+"\n", args...)
}

// Success prints a checkmarked line.
func (p *Printer) Success(format string, args ...any) {
	p.print(p.Out, "✓ "+format+"\n", args...)
}

// Item prints an indented checkmarked line.
func (p *Printer) Item(format string, args ...any) {
	p.print(p.Out, "  ✓ "+format+"\n", args...)
}

// Warn prints a warning on Err.
func (p *Printer) Warn(format string, args ...any) {
	p.print(p.Err, "Warning: "+format+"\n", args...)
}

func (p *Printer) print(w io.Writer, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(w, format, args...)
}
