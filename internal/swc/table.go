package swc

// Table is an indexed store of parsed samples, the backbone for all later
// lookups. It is dense up to the maximum sample id seen; unused ids are
// explicit nil slots that every consumer skips.
type Table struct {
	samples []*Sample // index == sample id, nil == hole
	count   int
	format  Format
}

func newTable(entries []*Sample, format Format) *Table {
	maxID := 0
	for _, s := range entries {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	t := &Table{
		samples: make([]*Sample, maxID+1),
		format:  format,
	}
	for _, s := range entries {
		t.samples[s.ID] = s
		t.count++
	}
	return t
}

// Len returns the number of samples in the table.
func (t *Table) Len() int { return t.count }

// MaxID returns the largest sample id present.
func (t *Table) MaxID() int { return len(t.samples) - 1 }

// Format returns the physical layout the table was loaded from.
func (t *Table) Format() Format { return t.format }

// Get returns the sample with the given id, if present.
func (t *Table) Get(id int) (*Sample, bool) {
	if id < 0 || id >= len(t.samples) || t.samples[id] == nil {
		return nil, false
	}
	return t.samples[id], true
}

// Each calls fn for every sample in ascending id order, skipping holes.
func (t *Table) Each(fn func(*Sample)) {
	for _, s := range t.samples {
		if s != nil {
			fn(s)
		}
	}
}

// ByType returns samples of the given types in ascending id order.
func (t *Table) ByType(types ...SampleType) []*Sample {
	want := make(map[SampleType]bool, len(types))
	for _, tt := range types {
		want[tt] = true
	}
	out := make([]*Sample, 0)
	for _, s := range t.samples {
		if s != nil && want[s.Type] {
			out = append(out, s)
		}
	}
	return out
}

// CountByType returns the number of samples of the given type.
func (t *Table) CountByType(tt SampleType) int {
	n := 0
	for _, s := range t.samples {
		if s != nil && s.Type == tt {
			n++
		}
	}
	return n
}
