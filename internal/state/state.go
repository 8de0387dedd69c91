// Package state persists reconstruction bookkeeping between runs so
// unchanged inputs can be skipped.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	StateFile           = ".neurotrace-state.json"
	CurrentStateVersion = "1"
)

// InputState tracks one processed morphology file.
type InputState struct {
	Hash        string    `json:"hash"`
	Label       string    `json:"label,omitempty"`
	Format      string    `json:"format,omitempty"`
	Stems       int       `json:"stems,omitempty"`
	Samples     int       `json:"samples,omitempty"`
	Diagnostics int       `json:"diagnostics,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// State tracks all processed inputs and the hashes of generated outputs.
type State struct {
	Version      string                `json:"version"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Inputs       map[string]InputState `json:"inputs"`
	OutputHashes map[string]string     `json:"output_hashes,omitempty"`
}

// NewState creates a new empty state.
func NewState() *State {
	return &State{
		Version:      CurrentStateVersion,
		Inputs:       make(map[string]InputState),
		OutputHashes: make(map[string]string),
	}
}

// Load reads the state file from the output directory. A missing file yields
// a fresh state; a corrupt one is reported so the caller can decide to start
// over.
func Load(outDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(outDir, StateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Inputs == nil {
		st.Inputs = make(map[string]InputState)
	}
	if st.OutputHashes == nil {
		st.OutputHashes = make(map[string]string)
	}
	if st.Version == "" {
		st.Version = CurrentStateVersion
	}
	return &st, nil
}

// Save writes the state file into the output directory.
func (s *State) Save(outDir string) error {
	if s.Version == "" {
		s.Version = CurrentStateVersion
	}
	s.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, StateFile), data, 0o644)
}

// SetInput records the outcome of reconstructing one input file.
func (s *State) SetInput(path string, input InputState) {
	input.UpdatedAt = time.Now()
	s.Inputs[path] = input
}

// RemoveInput drops an input from tracking.
func (s *State) RemoveInput(path string) {
	delete(s.Inputs, path)
}

// HasChanged reports whether the input's content hash differs from the one
// recorded on the last run. Unknown inputs count as changed.
func (s *State) HasChanged(path, currentHash string) bool {
	input, ok := s.Inputs[path]
	if !ok {
		return true
	}
	return input.Hash != currentHash
}

// SetOutputHash records the content hash of a generated output file.
func (s *State) SetOutputHash(path, hash string) {
	if s.OutputHashes == nil {
		s.OutputHashes = make(map[string]string)
	}
	s.OutputHashes[path] = hash
}

// GetOutputHash returns the stored hash for a generated output file.
func (s *State) GetOutputHash(path string) (string, bool) {
	hash, ok := s.OutputHashes[path]
	return hash, ok
}
