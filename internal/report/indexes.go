package report

import (
	"errors"
	"fmt"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/dbsmedya/keyprofiler/internal/store"
)

const (
	notAvailable     = "N/A"
	maxIndexedFields = 5
)

// Indexes writes the full-text index section. listErr is the error from
// listing the indexes; when set, a one-line notice replaces the section.
func (f *Formatter) Indexes(indexes []store.SearchIndex, listErr error) {
	fmt.Fprintln(f.w)
	f.header("Search Index Information")

	if listErr != nil {
		reason := "error listing indexes"
		if errors.Is(listErr, store.ErrCapabilityUnavailable) {
			reason = "module not loaded"
		}
		fmt.Fprintf(f.w, "  Search not available (%s): %s\n", reason, f.clip(listErr.Error(), 48))
		return
	}
	if len(indexes) == 0 {
		fmt.Fprintln(f.w, "  No search indexes found")
		return
	}

	fmt.Fprintf(f.w, "  Found %d search indexes\n", len(indexes))
	for _, idx := range indexes {
		fmt.Fprintln(f.w)
		fmt.Fprintf(f.w, "  Index: %s\n", f.paint(color.Cyan, idx.Name))
		if idx.Err != "" {
			fmt.Fprintf(f.w, "    %s %s\n", f.paint(color.Yellow, "Error getting info:"), idx.Err)
			continue
		}
		fmt.Fprintf(f.w, "    Documents:  %s\n", orNA(idx.NumDocs))
		fmt.Fprintf(f.w, "    Index size: %s MB\n", orNA(idx.InvertedSizeMB))
		fmt.Fprintf(f.w, "    Fields:     %d\n", len(idx.Fields))
		if len(idx.Fields) > 0 {
			f.fieldTable(idx.Fields)
		}
	}
}

func (f *Formatter) fieldTable(fields []store.SearchField) {
	t := table.NewWriter()
	t.SetOutputMirror(f.w)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Attribute", "Type", "Identifier"})
	for i, fl := range fields {
		if i == maxIndexedFields {
			break
		}
		t.AppendRow(table.Row{orNA(fl.Attribute), orNA(fl.Type), orNA(fl.Identifier)})
	}
	if len(fields) > maxIndexedFields {
		t.AppendFooter(table.Row{fmt.Sprintf("+%d more", len(fields)-maxIndexedFields), "", ""})
	}
	t.Render()
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
