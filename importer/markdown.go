package importer

import (
	"fmt"

	"schematic/diagram"
	"schematic/markdown"
)

// MarkdownImporter reads a document from a fenced block in a Markdown file.
type MarkdownImporter struct {
	// Block is the 1-based block to import; 0 selects the first.
	Block int
}

// NewMarkdownImporter creates an importer for the nth block.
func NewMarkdownImporter(block int) *MarkdownImporter {
	return &MarkdownImporter{Block: block}
}

// CanImport accepts content holding at least one fenced document: a schematic
// fence, or a yaml or json fence that declares a page.
func (i *MarkdownImporter) CanImport(content []byte) bool {
	return len(markdown.NewScanner(string(content)).FindBlocks()) > 0
}

// Import decodes the selected block as YAML or JSON.
func (i *MarkdownImporter) Import(content []byte) (*diagram.Document, error) {
	block, err := markdown.NewScanner(string(content)).Block(i.Block)
	if err != nil {
		return nil, err
	}
	doc, err := Parse([]byte(block.Content))
	if err != nil {
		return nil, fmt.Errorf("block at line %d: %w", block.StartLine+1, err)
	}
	return doc, nil
}

// FormatName returns the format name.
func (i *MarkdownImporter) FormatName() string {
	return "Markdown"
}

// FileExtensions returns the Markdown extensions.
func (i *MarkdownImporter) FileExtensions() []string {
	return []string{".md", ".markdown"}
}
