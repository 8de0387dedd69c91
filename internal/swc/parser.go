package swc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ParseError reports a hard parse failure. Line is 1-based and counts every
// line of the input, comments and blanks included.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

const swcFieldCount = 7

// Parse reads SWC lines into a sample table. Each non-comment, non-blank line
// holds seven whitespace-separated fields: index, type, x, y, z, radius,
// parent. A short line or a bad numeric field aborts with a *ParseError; no
// partial table is returned. Unrecognized type codes fall back to basal
// dendrite and are reported as diagnostics.
func Parse(r io.Reader) (*Table, []Diagnostic, error) {
	entries := make([]*Sample, 0)
	diags := make([]Diagnostic, 0)
	seen := make(map[int]int) // sample id -> line it was declared on

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < swcFieldCount {
			return nil, nil, &ParseError{
				Line: lineNo,
				Msg:  fmt.Sprintf("malformed line: expected %d fields, got %d", swcFieldCount, len(fields)),
			}
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, numericFieldError(lineNo, "index", fields[0])
		}
		if id < 0 {
			return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("negative sample index %d", id)}
		}
		code, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, nil, numericFieldError(lineNo, "type", fields[1])
		}
		var coords [3]float64
		for i, name := range [3]string{"x", "y", "z"} {
			coords[i], err = strconv.ParseFloat(fields[2+i], 64)
			if err != nil {
				return nil, nil, numericFieldError(lineNo, name, fields[2+i])
			}
		}
		radius, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, nil, numericFieldError(lineNo, "radius", fields[5])
		}
		parentID, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, nil, numericFieldError(lineNo, "parent", fields[6])
		}

		if prev, dup := seen[id]; dup {
			return nil, nil, &ParseError{
				Line: lineNo,
				Msg:  fmt.Sprintf("duplicate sample id %d (first declared on line %d)", id, prev),
			}
		}
		seen[id] = lineNo

		sampleType, fellBack := normalizeTypeCode(code, parentID)
		if fellBack {
			diags = append(diags, Diagnostic{
				Stage:    "parse",
				Severity: "warning",
				Sample:   id,
				Line:     lineNo,
				Message:  fmt.Sprintf("unrecognized type code %d, treated as %s", code, sampleType),
			})
		}

		entries = append(entries, &Sample{
			ID:       id,
			Type:     sampleType,
			Position: v3.Vec{X: coords[0], Y: coords[1], Z: coords[2]},
			Radius:   radius,
			ParentID: parentID,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}

	return newTable(entries, FormatSWC), diags, nil
}

// FromPoints builds a sample table from pre-populated point records, with the
// same normalization and duplicate-id guarantees as Parse. Loaders with a
// different physical layout (HDF5 and friends) feed the pipeline through
// this path; everything downstream stays format-agnostic.
func FromPoints(points []RawPoint) (*Table, []Diagnostic, error) {
	entries := make([]*Sample, 0, len(points))
	diags := make([]Diagnostic, 0)
	seen := make(map[int]int)

	for i, p := range points {
		record := i + 1
		if p.ID < 0 {
			return nil, nil, &ParseError{Line: record, Msg: fmt.Sprintf("negative sample index %d", p.ID)}
		}
		if prev, dup := seen[p.ID]; dup {
			return nil, nil, &ParseError{
				Line: record,
				Msg:  fmt.Sprintf("duplicate sample id %d (first declared in record %d)", p.ID, prev),
			}
		}
		seen[p.ID] = record

		sampleType, fellBack := normalizeTypeCode(p.Type, p.ParentID)
		if fellBack {
			diags = append(diags, Diagnostic{
				Stage:    "parse",
				Severity: "warning",
				Sample:   p.ID,
				Line:     record,
				Message:  fmt.Sprintf("unrecognized type code %d, treated as %s", p.Type, sampleType),
			})
		}

		entries = append(entries, &Sample{
			ID:       p.ID,
			Type:     sampleType,
			Position: v3.Vec{X: p.X, Y: p.Y, Z: p.Z},
			Radius:   p.Radius,
			ParentID: p.ParentID,
		})
	}

	return newTable(entries, FormatPoints), diags, nil
}

func numericFieldError(line int, field, value string) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf("bad %s field %q", field, value)}
}
