// Package report renders the validated discovery results as a table and
// writes them to an output file. Report failures are never fatal: results
// were already streamed to stdout by the time a report is written.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// Entry is one validated host with its sorted address set.
type Entry struct {
	Host  string   `json:"host"`
	Addrs []string `json:"addrs"`
}

// Write renders entries as an ASCII table sorted by hostname. Each row holds
// the hostname and the comma-joined sorted address list; when geo is non-nil
// a third column carries the country codes of the addresses.
func Write(w io.Writer, entries []Entry, geo *GeoIP) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Host < sorted[j].Host })

	header := []string{"Host", "Addresses"}
	if geo != nil {
		header = append(header, "Country")
	}

	var rows [][]string
	for _, e := range sorted {
		row := []string{e.Host, strings.Join(e.Addrs, ", ")}
		if geo != nil {
			row = append(row, geo.Countries(e.Addrs))
		}
		rows = append(rows, row)
	}

	table := newWrappingTable(w, 30, 6)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Save writes the report table to path, creating or truncating the file.
func Save(path string, entries []Entry, geo *GeoIP) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := Write(f, entries, geo); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// terminalWidth returns the terminal width for w, or defaultTermWidth if w
// is not a terminal or the width cannot be determined (always the case for
// report files).
func terminalWidth(w io.Writer) int {
	type fder interface{ Fd() uintptr }
	if f, ok := w.(fder); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 { //nolint:gosec // uintptr→int is safe for file descriptors; they fit in int on all supported platforms
			return width
		}
	}
	return defaultTermWidth
}

// newWrappingTable returns a tablewriter that auto-wraps cell content to fit
// the output width. minWidth is the floor for the computed column max width;
// overhead is the characters consumed by borders, padding, and fixed columns.
func newWrappingTable(w io.Writer, minWidth, overhead int) *tablewriter.Table {
	maxColWidth := max(minWidth, terminalWidth(w)-overhead)
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNormal},
				ColMaxWidths: tw.CellWidth{Global: maxColWidth},
			},
		}),
	)
}
