package swc

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader loads a sample table from one physical morphology layout.
type Reader interface {
	// Format returns the format this reader handles.
	Format() Format

	// Extensions returns file extensions this reader recognizes.
	Extensions() []string

	// Read builds a sample table from raw file content.
	Read(r io.Reader) (*Table, []Diagnostic, error)
}

// Registry holds all registered morphology readers.
type Registry struct {
	readers     map[Format]Reader
	extToFormat map[string]Format
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{
		readers:     make(map[Format]Reader),
		extToFormat: make(map[string]Format),
	}
}

// NewDefaultRegistry returns a registry with the built-in readers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(swcReader{})
	return r
}

// Register adds a reader to the registry.
func (r *Registry) Register(reader Reader) {
	r.readers[reader.Format()] = reader
	for _, ext := range reader.Extensions() {
		r.extToFormat[strings.ToLower(ext)] = reader.Format()
	}
}

// ReaderForFile returns the reader handling the file's extension.
func (r *Registry) ReaderForFile(filename string) (Reader, bool) {
	format, ok := r.extToFormat[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, false
	}
	reader, ok := r.readers[format]
	return reader, ok
}

// SupportedExtensions returns all recognized file extensions.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToFormat))
	for ext := range r.extToFormat {
		exts = append(exts, ext)
	}
	return exts
}

// ReadFile loads a sample table from the given path. Unsupported extensions
// return a nil table and no error so directory walks can skip them silently.
func (r *Registry) ReadFile(path string) (*Table, []Diagnostic, error) {
	reader, ok := r.ReaderForFile(path)
	if !ok {
		return nil, nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return reader.Read(f)
}

type swcReader struct{}

func (swcReader) Format() Format       { return FormatSWC }
func (swcReader) Extensions() []string { return []string{".swc"} }
func (swcReader) Read(r io.Reader) (*Table, []Diagnostic, error) {
	return Parse(r)
}
