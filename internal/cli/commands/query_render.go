package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/keelsql/pkg/core"
)

func renderResult(w io.Writer, res core.QueryResult, format string) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		return renderCSV(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res core.QueryResult) error {
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newResultWriter(w, res)
	t.SetStyle(table.StyleLight)
	t.Render()

	if len(res.Rows) == 1 {
		_, _ = fmt.Fprintln(w, "(1 row)")
	} else {
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	}
	return nil
}

// renderJSON writes the wire form of the result, kinds included.
func renderJSON(w io.Writer, res core.QueryResult) error {
	if res.Rows == nil {
		res.Rows = []core.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func renderCSV(w io.Writer, res core.QueryResult) error {
	if len(res.Rows) == 0 {
		return nil
	}
	newResultWriter(w, res).RenderCSV()
	return nil
}

// newResultWriter loads res into a table writer. Headers come from the
// first row; every row of a result shares its column list.
func newResultWriter(w io.Writer, res core.QueryResult) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, 0, len(res.Rows[0].Columns))
	for _, name := range res.Rows[0].Names() {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for _, row := range res.Rows {
		r := make(table.Row, 0, len(row.Columns))
		for _, c := range row.Columns {
			r = append(r, c.Value.String())
		}
		t.AppendRow(r)
	}
	return t
}
