package builder

import "fmt"

// LinkError reports ambiguous topology: a section whose first sample matches
// the last sample of more than one candidate parent section. This usually
// means the source file carried duplicated or reused sample ids.
type LinkError struct {
	Section    int
	Sample     int
	Candidates []int
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("section %d: sample %d matches %d candidate parent sections %v",
		e.Section, e.Sample, len(e.Candidates), e.Candidates)
}

// AssemblyError reports a broken structural invariant discovered while
// bundling the final morphology.
type AssemblyError struct {
	Arbor   string
	Section int
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("inconsistent tree: arbor %q root section %d still has a parent link", e.Arbor, e.Section)
}
