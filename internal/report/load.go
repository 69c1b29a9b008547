package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/retailetl/internal/core"
)

// PrintLoadResult writes a per-table summary of a run followed by every
// rejected row.
func PrintLoadResult(w io.Writer, res core.LoadResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s (%s)\n", res.RunID, res.Duration.Round(time.Millisecond))
	fmt.Fprintln(tw, "TABLE\tFILE\tROWS\tINSERTED\tREJECTED\tERROR")
	for _, t := range res.Tables {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			t.Entity, t.FileName, t.TotalRows, t.Inserted, len(t.FailedRows), t.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	rejected := res.Rejected()
	if len(rejected) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%d rejected rows:\n", len(rejected))
	for _, fr := range rejected {
		fmt.Fprintf(w, "  %s:%d [%s %s] %s\n", fr.FileName, fr.LineNumber, fr.Kind, fr.Code, fr.Reason)
	}
	return nil
}

// WriteFailedRows writes rejected rows as CSV: the line number, kind, code
// and reason, followed by the original cells. columns names the original
// cells; cells beyond len(columns) get positional col_N names.
func WriteFailedRows(w io.Writer, columns []string, rows []core.FailedRow) error {
	width := len(columns)
	for _, r := range rows {
		if len(r.Data) > width {
			width = len(r.Data)
		}
	}
	header := []string{"_line", "_kind", "_code", "_error"}
	for i := 0; i < width; i++ {
		if i < len(columns) {
			header = append(header, columns[i])
		} else {
			header = append(header, "col_"+strconv.Itoa(i+1))
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, 4, 4+width)
		record[0] = strconv.Itoa(r.LineNumber)
		record[1] = string(r.Kind)
		record[2] = r.Code
		record[3] = r.Reason
		record = append(record, r.Data...)
		for len(record) < 4+width {
			record = append(record, "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFailedRows writes one <table>_failed.csv per table with rejections
// into dir and returns the paths written.
func ExportFailedRows(dir string, res core.LoadResult) ([]string, error) {
	var paths []string
	for _, t := range res.Tables {
		if len(t.FailedRows) == 0 {
			continue
		}
		var columns []string
		if def, ok := core.Get(t.Entity); ok {
			columns = def.Info.Columns
		}

		path := filepath.Join(dir, string(t.Entity)+"_failed.csv")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", path, err)
		}
		werr := WriteFailedRows(f, columns, t.FailedRows)
		cerr := f.Close()
		if werr != nil {
			return paths, fmt.Errorf("write %s: %w", path, werr)
		}
		if cerr != nil {
			return paths, fmt.Errorf("close %s: %w", path, cerr)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
