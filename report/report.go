// Package report renders search responses for terminals and documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/use-agent/shopscout/models"
)

// Format names accepted by New.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Writer renders a search response.
type Writer interface {
	Write(resp *models.SearchResponse) error
}

// New returns the Writer for format.
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return &JSONWriter{output: output}, nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want json or markdown)", format)
	}
}

// JSONWriter outputs the response as indented JSON.
type JSONWriter struct {
	output io.Writer
}

// Write implements Writer.
func (w *JSONWriter) Write(resp *models.SearchResponse) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
