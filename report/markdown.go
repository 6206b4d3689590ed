package report

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/use-agent/shopscout/models"
)

// MarkdownWriter outputs one table of listings per site.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: w}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(resp *models.SearchResponse) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search results: " + resp.Term)
	md.PlainText("")

	sites := sortedSites(resp)
	w.writeSummary(md, resp, sites)
	for _, id := range sites {
		w.writeSite(md, id, resp.Sites[id])
	}

	return md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, resp *models.SearchResponse, sites []string) {
	rows := make([][]string, 0, len(sites))
	chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("Listings per site"), piechart.WithShowData(true))
	plotted := false

	for _, id := range sites {
		r := resp.Sites[id]
		status := "✅ ok"
		if !r.OK() {
			status = "❌ " + r.ErrorCode
		}
		rows = append(rows, []string{id, status, strconv.Itoa(r.Count)})
		if r.Count > 0 {
			chart.LabelAndIntValue(id, uint64(r.Count))
			plotted = true
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Status", "Listings"},
		Rows:   rows,
	})
	md.PlainText("")

	if plotted && len(sites) > 1 {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSite(md *markdown.Markdown, id string, r models.SiteResult) {
	md.H2(id)
	md.PlainText("")

	if !r.OK() {
		md.Warningf("%s: %s", r.ErrorCode, r.Error)
		md.PlainText("")
		return
	}
	if len(r.Listings) == 0 {
		md.PlainText("No listings found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.Listings))
	for i, l := range r.Listings {
		price := "-"
		if l.Price != nil {
			price = strconv.FormatFloat(*l.Price, 'f', 2, 64)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			cell(l.Title),
			cell(l.RawPrice),
			price,
			"![](" + l.ImageURL + ")",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "Price", "Value", "Image"},
		Rows:   rows,
	})
	md.PlainText("")
}

func sortedSites(resp *models.SearchResponse) []string {
	ids := make([]string, 0, len(resp.Sites))
	for id := range resp.Sites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// cell escapes characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
