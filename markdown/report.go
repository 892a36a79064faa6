// Package markdown renders catalog reports as Markdown documents.
package markdown

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/arcmirror/arcmirror"
	"github.com/nao1215/markdown"
)

// ReportWriter renders a catalog report as GitHub-flavored Markdown.
type ReportWriter struct {
	output io.Writer
}

// NewReportWriter creates a ReportWriter that writes to output.
func NewReportWriter(output io.Writer) *ReportWriter {
	return &ReportWriter{output: output}
}

// WriteReport renders the full report.
func (w *ReportWriter) WriteReport(report *arcmirror.Report) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeServiceTypes(md, report.Summary)
	w.writeDatasets(md, report.Datasets)
	w.writeFooter(md)

	return md.Build()
}

// writeHeader writes the report title and the catalog properties table.
func (w *ReportWriter) writeHeader(md *markdown.Markdown, report *arcmirror.Report) {
	md.H1("ArcGIS Mirror Catalog")
	md.PlainText("")

	summary := report.Summary
	rows := [][]string{
		{"Service URL", report.ServiceURL},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Datasets", strconv.Itoa(summary.Datasets)},
		{"Layers", strconv.Itoa(summary.Layers)},
		{"Keywords", strconv.Itoa(summary.Keywords)},
	}
	if !summary.LastUpdatedAt.IsZero() {
		rows = append(rows, []string{"Last Updated", summary.LastUpdatedAt.Format("2006-01-02 15:04:05 MST")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeServiceTypes writes the per-type dataset counts.
func (w *ReportWriter) writeServiceTypes(md *markdown.Markdown, summary *arcmirror.CatalogSummary) {
	md.H2("Services by Type")
	md.PlainText("")

	if len(summary.ByServiceType) == 0 {
		md.PlainText("No datasets cataloged.")
		md.PlainText("")
		return
	}

	types := make([]string, 0, len(summary.ByServiceType))
	for t := range summary.ByServiceType {
		types = append(types, t)
	}
	sort.Strings(types)

	rows := make([][]string, len(types))
	for i, t := range types {
		rows[i] = []string{orDash(t), strconv.Itoa(summary.ByServiceType[t])}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Type", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDatasets writes the dataset listing table.
func (w *ReportWriter) writeDatasets(md *markdown.Markdown, datasets []*arcmirror.Dataset) {
	md.H2("Datasets")
	md.PlainText("")

	if len(datasets) == 0 {
		md.PlainText("No datasets cataloged.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(datasets))
	for i, d := range datasets {
		rows[i] = []string{
			"`" + d.Slug + "`",
			orDash(d.Title),
			orDash(d.ServiceType),
			strconv.Itoa(d.LayerCount),
			orDash(strings.Join(d.Keywords, ", ")),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Slug", "Title", "Type", "Layers", "Keywords"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *ReportWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by arcmirror*")
}

// orDash substitutes a dash for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
