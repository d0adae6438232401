// Package renderer renders positions, performance reports, ledger pages and
// price statistics as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tracker"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"details": Details,
}

// RenderPositions renders a positions snapshot as a table.
func RenderPositions(positions []tracker.Position) string {
	return renderTemplate("positions", "positions.md", nil, positions)
}

type performanceData struct {
	Reports  []tracker.PerformanceReport
	Failures []tracker.PerformanceEntry
}

// RenderPerformance renders a performance report, followed by the list of
// instruments that could not be priced.
func RenderPerformance(result tracker.PerformanceResult) string {
	data := performanceData{Reports: result.Reports()}
	for _, e := range result {
		if e.Err != nil {
			data.Failures = append(data.Failures, e)
		}
	}
	partials := map[string]string{
		"performance_failures": "performance_failures.md",
	}
	return renderTemplate("performance", "performance.md", partials, data)
}

// RenderPage renders one page of the ledger.
func RenderPage(v tracker.PageView) string {
	partials := map[string]string{
		"page_footer": "page_footer.md",
	}
	return renderTemplate("page", "page.md", partials, v)
}

// RenderStats renders price statistics.
func RenderStats(s tracker.PriceStats) string {
	return renderTemplate("stats", "stats.md", nil, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
