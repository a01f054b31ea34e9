// Package listview turns item snapshots into rows for display.
// Everything here is pure: no storage, no terminal.
package listview

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/jotlist/internal/model"
	"github.com/idilsaglam/jotlist/internal/ui"
)

// Placeholder is the text of the single row shown for an empty list.
const Placeholder = "No items stored."

// Row is one rendered line. Deletable rows carry the delete control
// for item ID; the placeholder row does not.
type Row struct {
	ID        int64
	Text      string
	Deletable bool
}

// IsPlaceholder reports whether r is the empty-state row.
func (r Row) IsPlaceholder() bool { return !r.Deletable }

func placeholder() []Row { return []Row{{Text: Placeholder}} }

// Render builds rows for items in the order given. Callers pass the
// store's listing order, which is ascending id.
func Render(items []model.Item) []Row {
	if len(items) == 0 {
		return placeholder()
	}
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{ID: it.ID, Text: it.Body, Deletable: true})
	}
	return rows
}

// Remove drops the row for id without touching the others. When no item
// rows are left the result is the placeholder alone.
func Remove(rows []Row, id int64) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Deletable && r.ID == id {
			continue
		}
		if r.Deletable {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return placeholder()
	}
	return out
}

// Count returns the number of item rows, ignoring the placeholder.
func Count(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.Deletable {
			n++
		}
	}
	return n
}

// Plain renders rows as "<id>\t<text>" lines, the placeholder as its text.
func Plain(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		if r.Deletable {
			fmt.Fprintf(&b, "%d\t%s\n", r.ID, r.Text)
			continue
		}
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines renders rows for the framed panel: id, text and the delete mark.
func Lines(rows []Row, t ui.Theme) []string {
	width := 1
	for _, r := range rows {
		if w := len(fmt.Sprint(r.ID)); r.Deletable && w > width {
			width = w
		}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if !r.Deletable {
			out = append(out, ui.C(t.Muted, r.Text))
			continue
		}
		id := ui.C(t.Muted, fmt.Sprintf("%*d", width, r.ID))
		out = append(out, fmt.Sprintf("%s  %s  %s", id, r.Text, ui.C(t.Error, t.DeleteMark)))
	}
	return out
}
