// Package importer reads schematic documents from YAML or JSON files.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schematic/diagram"
)

// Importer converts file content into a document.
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content []byte) bool

	// Import builds a document from content.
	Import(content []byte) (*diagram.Document, error)

	// FormatName returns the human-readable name of the format
	FormatName() string

	// FileExtensions returns common file extensions for this format
	FileExtensions() []string
}

// Registry manages available importers.
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with the JSON, Markdown and YAML importers.
// YAML is tried last since every JSON document is also valid YAML and a
// Markdown block holds a YAML page line.
func NewRegistry() *Registry {
	return &Registry{
		importers: []Importer{
			NewJSONImporter(),
			NewMarkdownImporter(0),
			NewYAMLImporter(),
		},
	}
}

// Register adds an importer to the registry. An importer with the same format
// name takes the place of the one already registered, keeping its detection
// order.
func (r *Registry) Register(imp Importer) {
	for i, existing := range r.importers {
		if existing.FormatName() == imp.FormatName() {
			r.importers[i] = imp
			return
		}
	}
	r.importers = append(r.importers, imp)
}

// DetectFormat returns the first importer that accepts content.
func (r *Registry) DetectFormat(content []byte) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import imports content using auto-detection.
func (r *Registry) Import(content []byte) (*diagram.Document, error) {
	imp, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}

// ImportFile imports a file, choosing the importer by extension before
// falling back to detection.
func (r *Registry) ImportFile(path string) (*diagram.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, imp := range r.importers {
		for _, e := range imp.FileExtensions() {
			if e == ext {
				doc, err := imp.Import(content)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				return doc, nil
			}
		}
	}
	doc, err := r.Import(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// AvailableFormats returns the names of the registered formats.
func (r *Registry) AvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.FormatName()
	}
	return formats
}

// Parse imports content in any registered format.
func Parse(content []byte) (*diagram.Document, error) {
	return NewRegistry().Import(content)
}

// Load imports a document file.
func Load(path string) (*diagram.Document, error) {
	return NewRegistry().ImportFile(path)
}

// YAMLImporter reads the YAML document format.
type YAMLImporter struct{}

// NewYAMLImporter creates a YAML importer.
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport accepts anything with a top-level page key.
func (i *YAMLImporter) CanImport(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "page:") {
			return true
		}
	}
	return false
}

// Import decodes and builds a document.
func (i *YAMLImporter) Import(content []byte) (*diagram.Document, error) {
	file, err := decode(content)
	if err != nil {
		return nil, err
	}
	return file.build()
}

// FormatName returns the format name.
func (i *YAMLImporter) FormatName() string {
	return "YAML"
}

// FileExtensions returns the YAML extensions.
func (i *YAMLImporter) FileExtensions() []string {
	return []string{".yaml", ".yml"}
}

// JSONImporter reads the same document format written as JSON.
type JSONImporter struct{}

// NewJSONImporter creates a JSON importer.
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport accepts a JSON object.
func (i *JSONImporter) CanImport(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

// Import validates the JSON syntax, then decodes it like YAML.
func (i *JSONImporter) Import(content []byte) (*diagram.Document, error) {
	if !json.Valid(content) {
		var v any
		err := json.Unmarshal(content, &v)
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	file, err := decode(content)
	if err != nil {
		return nil, err
	}
	return file.build()
}

// FormatName returns the format name.
func (i *JSONImporter) FormatName() string {
	return "JSON"
}

// FileExtensions returns the JSON extension.
func (i *JSONImporter) FileExtensions() []string {
	return []string{".json"}
}
