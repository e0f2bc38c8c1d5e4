package convert

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"

	"github.com/whileseated/telegraph-markdown-uploader/internal/telegraph"
)

// foldTable flattens a table element into an aligned text grid inside
// a pre node. Telegraph has no table support; alignment by display
// width keeps mixed-width (CJK) columns readable in monospace.
func foldTable(n *html.Node) (telegraph.Node, bool) {
	rows := tableRows(n)
	if len(rows) == 0 {
		return nil, false
	}

	return telegraph.NewElement("pre", telegraph.Text(alignRows(rows))), true
}

// tableRows collects the cell text of every tr in the table, looking
// through thead/tbody wrappers.
func tableRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
					cells = append(cells, cellText(c))
				}
			}

			rows = append(rows, cells)

			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return rows
}

// cellText returns the flattened text content of a cell with runs of
// whitespace collapsed to single spaces.
func cellText(cell *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(cell)

	return strings.Join(strings.Fields(sb.String()), " ")
}

// alignRows renders rows as a pipe-delimited grid with columns padded
// to a shared display width, separator line under the header row.
func alignRows(rows [][]string) string {
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Separator cells need at least three dashes.
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	for r, row := range rows {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(" ")
			sb.WriteString(content)

			padding := colWidths[j] - runewidth.StringWidth(content)
			if padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")

		if r == 0 && len(rows) > 1 {
			sb.WriteString("|")

			for j := 0; j < colCount; j++ {
				sb.WriteString(" ")
				sb.WriteString(strings.Repeat("-", colWidths[j]))
				sb.WriteString(" |")
			}

			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
