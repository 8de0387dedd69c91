package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type progressReporter struct {
	enabled bool
	label   string
	total   int
	start   time.Time
	spinner int
	lastLen int
}

func newProgressReporter(label string, total int, asJSON bool) *progressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &progressReporter{
		enabled: enabled,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

func (r *progressReporter) Update(file string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}

	status := fmt.Sprintf("%s %s %d/%d %s", frame, r.label, count, r.total, file)
	r.printStatus(status)
}

func (r *progressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d morphologies in %s)", r.label, count, elapsed))
	fmt.Fprintln(os.Stderr)
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", r.lastLen))
	}
	fmt.Fprintf(os.Stderr, "\r%s", status)
	r.lastLen = len(status)
}
