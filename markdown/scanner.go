// Package markdown finds schematic documents embedded in Markdown files as
// fenced code blocks.
package markdown

import (
	"fmt"
	"strings"
)

// Block is a fenced schematic block.
type Block struct {
	// Lang is the fence info string: "schematic", or "yaml"/"json" holding a
	// document.
	Lang    string
	Content string
	// StartLine and EndLine are the 0-based lines of the opening and closing
	// fences.
	StartLine int
	EndLine   int
	Indent    string
}

// Scanner finds schematic blocks in Markdown content.
type Scanner struct {
	lines []string
}

// NewScanner creates a scanner over content.
func NewScanner(content string) *Scanner {
	return &Scanner{lines: strings.Split(content, "\n")}
}

// FindBlocks returns every schematic block in document order. An unterminated
// block is ignored.
func (s *Scanner) FindBlocks() []Block {
	var blocks []Block
	var current *Block
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			if isSchematicLanguage(lang) {
				current = &Block{Lang: lang, StartLine: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(body, "\n")
			if current.Lang == "schematic" || isDocument(current.Content) {
				blocks = append(blocks, *current)
			}
			current = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, current.Indent))
	}
	return blocks
}

// Block returns the 1-based nth block; 0 selects the first.
func (s *Scanner) Block(n int) (Block, error) {
	blocks := s.FindBlocks()
	if len(blocks) == 0 {
		return Block{}, fmt.Errorf("no schematic block found")
	}
	if n == 0 {
		n = 1
	}
	if n < 1 || n > len(blocks) {
		found := make([]string, len(blocks))
		for i, b := range blocks {
			found[i] = "  " + FormatBlockInfo(b, i)
		}
		return Block{}, fmt.Errorf("block %d out of range: found %d\n%s", n, len(blocks), strings.Join(found, "\n"))
	}
	return blocks[n-1], nil
}

// isSchematicLanguage checks the fence info strings that may hold a document.
func isSchematicLanguage(lang string) bool {
	switch lang {
	case "schematic", "yaml", "yml", "json":
		return true
	default:
		return false
	}
}

// isDocument reports whether a yaml or json block declares a page.
func isDocument(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		t := strings.TrimLeft(line, " \t{")
		if strings.HasPrefix(t, "page:") || strings.HasPrefix(t, `"page"`) {
			return true
		}
	}
	return false
}

// previewLength is the most runes of a block's first line FormatBlockInfo
// shows.
const previewLength = 50

// FormatBlockInfo returns a one-line description of a block.
func FormatBlockInfo(block Block, index int) string {
	preview := ""
	for _, line := range strings.Split(strings.TrimSpace(block.Content), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			preview = t
			if r := []rune(t); len(r) > previewLength {
				preview = string(r[:previewLength-3]) + "..."
			}
			break
		}
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, block.Lang, block.StartLine+1, preview)
}
