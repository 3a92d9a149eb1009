package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/panel"
)

// renderPanel prints the status line, the ungrouped favorites and then each
// group. Collapsed groups only show their header.
func renderPanel(w io.Writer, v panel.View, now time.Time) {
	fmt.Fprintf(w, "%s  (sort: %s)\n", v.Status, v.Sort)
	if v.Empty {
		fmt.Fprintln(w, panel.EmptyMessage)
	}

	if len(v.Ungrouped) > 0 {
		fmt.Fprintln(w)
		itemTable(w, v.Ungrouped, now)
	}

	for _, g := range v.Groups {
		fmt.Fprintln(w)
		marker := "▾"
		if g.Collapsed {
			marker = "▸"
		}
		fmt.Fprintf(w, "%s %s (%d)\n", marker, g.Name, g.Count)
		if len(g.Items) > 0 {
			itemTable(w, g.Items, now)
		}
	}
}

func itemTable(w io.Writer, items []panel.Item, now time.Time) {
	table := newTable(w, []string{"ID", "Name", "Type", "Added", "Modified", "Path"})
	for _, it := range items {
		table.Append([]string{
			it.ID,
			it.Name,
			it.Kind,
			relTime(it.DateAdded, now),
			relTime(it.Modified, now),
			it.Path,
		})
	}
	table.Render()
}

func renderGroups(w io.Writer, groups []domain.Group, entries []domain.Entry) {
	counts := make(map[string]int, len(groups))
	for _, e := range entries {
		counts[e.GroupID]++
	}

	table := newTable(w, []string{"ID", "Name", "Order", "Collapsed", "Favorites"})
	for _, g := range groups {
		table.Append([]string{
			g.ID,
			g.Name,
			strconv.Itoa(g.SortOrder),
			strconv.FormatBool(g.Collapsed),
			strconv.Itoa(counts[g.ID]),
		})
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// relTime renders t relative to now, or "-" for the zero time.
func relTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
