package export

import (
	"bytes"
	"fmt"
	"html/template"
)

var printableTemplate = template.Must(template.New("printable").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #23282d; }
h1 { font-size: 20px; margin-bottom: 4px; }
.generated { color: #666; font-size: 12px; margin-bottom: 20px; }
h2 { font-size: 15px; border-bottom: 1px solid #ccd0d4; padding-bottom: 4px; }
table { border-collapse: collapse; width: 100%; margin-bottom: 20px; font-size: 12px; }
th, td { border: 1px solid #ccd0d4; padding: 6px 8px; text-align: left; }
th { background: #f1f1f1; }
.summary td:first-child { font-weight: bold; width: 40%; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="generated">Generated on: {{.GeneratedAt}}</div>
{{- if .Summary}}
<h2>Summary Statistics</h2>
<table class="summary">
{{- range .Summary}}
<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- end}}
<h2>Detailed data</h2>
<table class="details">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

type printableSummary struct {
	Label string
	Value string
}

type printableView struct {
	Title       string
	GeneratedAt string
	Summary     []printableSummary
	Headers     []string
	Rows        [][]string
}

// PrintableExporter renders documents as a self-printing HTML page. Browsers
// can save it as PDF from the print dialog.
type PrintableExporter struct{}

// NewPrintableExporter constructs a printable exporter.
func NewPrintableExporter() *PrintableExporter {
	return &PrintableExporter{}
}

// ContentType implements Renderer.
func (e *PrintableExporter) ContentType() string { return "text/html; charset=utf-8" }

// Extension implements Renderer.
func (e *PrintableExporter) Extension() string { return "html" }

// Inline implements Renderer.
func (e *PrintableExporter) Inline() bool { return true }

// Render executes the printable template. All values are HTML escaped.
func (e *PrintableExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Headers) == 0 {
		return nil, fmt.Errorf("printable export requires at least one header")
	}
	view := printableView{
		Title:       doc.Title,
		GeneratedAt: formatGeneratedAt(doc.GeneratedAt),
		Headers:     doc.Headers,
		Rows:        doc.Rows,
	}
	for _, item := range doc.Summary {
		view.Summary = append(view.Summary, printableSummary{Label: Humanize(item.Key), Value: item.Value})
	}

	buf := &bytes.Buffer{}
	if err := printableTemplate.Execute(buf, view); err != nil {
		return nil, fmt.Errorf("render printable: %w", err)
	}
	return buf.Bytes(), nil
}
