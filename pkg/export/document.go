package export

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Supported output formats.
const (
	FormatCSV       = "csv"
	FormatPrintable = "printable"
)

// ErrUnknownFormat is returned by RendererFor for formats without a renderer.
var ErrUnknownFormat = errors.New("unknown export format")

// SummaryItem is one summary statistic. Key is snake_case.
type SummaryItem struct {
	Key   string
	Value string
}

// Document is the format-neutral export of one report. Renderers only ever
// see a Document, so every format shows the same numbers.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Summary     []SummaryItem
	Headers     []string
	Rows        [][]string
}

// Renderer serializes documents into one output format.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
	// Inline reports whether browsers should display rather than download.
	Inline() bool
}

// RendererFor returns the renderer registered for format.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPrintable:
		return NewPrintableExporter(), nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Humanize turns snake_case keys into Title Case labels.
func Humanize(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' })
	for i, part := range parts {
		first, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToTitle(first)) + part[size:]
	}
	return strings.Join(parts, " ")
}

func formatGeneratedAt(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
