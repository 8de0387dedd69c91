// Package output renders reconstructed morphologies into files: a text or
// JSONL summary plus a deterministic SWC re-export of the skeleton.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/fileutil"
	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// Format selects the summary layout.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSONL):
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: text, jsonl)", value)
	}
}

// Writer writes per-morphology output files into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write emits the summary in the requested format plus the SWC re-export,
// and returns the paths of all files it touched (written or already
// up to date).
func (w *Writer) Write(m *morphology.Morphology, report analysis.Report, diags []swc.Diagnostic, format Format) ([]string, error) {
	base := filepath.Join(w.dir, sanitizeLabel(m.Label()))
	paths := make([]string, 0, 2)

	var summaryPath string
	var summary []byte
	switch format {
	case FormatJSONL:
		data, err := encodeJSONLSummary(m, report, diags)
		if err != nil {
			return nil, err
		}
		summaryPath, summary = base+".jsonl", data
	default:
		summaryPath, summary = base+".txt", []byte(renderText(m, report, diags))
	}

	if _, err := fileutil.WriteIfChanged(summaryPath, summary); err != nil {
		return nil, fmt.Errorf("failed to write summary for %q: %w", m.Label(), err)
	}
	paths = append(paths, summaryPath)

	swcPath := base + ".reconstructed.swc"
	if _, err := fileutil.WriteIfChanged(swcPath, ExportSWC(m)); err != nil {
		return nil, fmt.Errorf("failed to write SWC export for %q: %w", m.Label(), err)
	}
	paths = append(paths, swcPath)

	return paths, nil
}

func sanitizeLabel(label string) string {
	mapper := func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}
	cleaned := strings.Map(mapper, strings.TrimSpace(label))
	if cleaned == "" {
		return "morphology"
	}
	return cleaned
}
