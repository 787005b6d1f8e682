// Package extract converts supported file formats to plain text for
// ingestion. The format is chosen from the file extension.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the plain-text form of a source file.
type Document struct {
	// Title comes from the document itself (first heading, <title> tag)
	// when available, otherwise from the file name.
	Title string

	// Text is the extracted plain text.
	Text string
}

// SupportedExtensions lists the file extensions FromFile understands.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown", ".html", ".htm"}
}

// FromFile reads a file and extracts its text.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data), nil
}

// FromBytes extracts text from raw content. The file name selects the
// format and is the title fallback.
func FromBytes(filename string, data []byte) *Document {
	content := string(data)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return &Document{
			Title: markdownTitle(content, filename),
			Text:  stripMarkdown(content),
		}
	case ".html", ".htm":
		return &Document{
			Title: htmlTitle(content, filename),
			Text:  stripHTML(content),
		}
	default:
		return &Document{
			Title: titleFromFilename(filename),
			Text:  strings.TrimSpace(content),
		}
	}
}

// titleFromFilename turns "cell_division-notes.txt" into "cell division notes".
func titleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
