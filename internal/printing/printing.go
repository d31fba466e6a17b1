// Package printing renders widgets and whole dashboards as printable HTML.
package printing

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/GregMSThompson/quality-dashboard/internal/export"
)

// Document is one printable page: a heading and one table per widget.
// Each section states the period its own rows cover.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Sections    []export.Table
}

// WidgetTitle is the document title used when printing a single widget.
func WidgetTitle(widgetTitle string) string {
	return widgetTitle + " - Chart Export"
}

// DashboardTitle is the document title used when printing every widget.
func DashboardTitle(now time.Time) string {
	return "Dashboard_" + now.Format("2006-01-02")
}

var documentTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"cell": cell,
	"date": func(t time.Time) string { return t.Format("January 2, 2006 15:04") },
}).Parse(documentTemplate))

// Render writes doc as a self-contained HTML page.
func Render(w io.Writer, doc Document) error {
	if err := documentTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("execute print template: %w", err)
	}
	return nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #111; }
h1 { font-size: 1.4rem; margin-bottom: 0.25rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
.meta { color: #555; font-size: 0.85rem; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; page-break-inside: avoid; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; font-size: 0.8rem; }
th { background: #f3f3f3; }
@media print { body { margin: 0.5cm; } section { page-break-after: always; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{date .GeneratedAt}}</p>
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
<p class="meta">{{with .Range}}Period: {{.StartDate}} to {{.EndDate}}{{else}}All records{{end}}</p>
{{if .Rows}}<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- $cols := .Columns}}{{range $row := .Rows}}
<tr>{{range $cols}}<td>{{index $row . | cell}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>{{else}}<p class="meta">No data for the selected period.</p>{{end}}
</section>
{{end}}</body>
</html>
`
