package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display. Items are given in preorder.
type TreeItem struct {
	Title     string
	Level     int
	IsLast    bool
	Collapsed bool // has hidden children
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree draws items with box-drawing connectors and right-aligned detail
// columns.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	// lastAt[l] is whether the most recent item at level l closed its
	// sibling list, which decides between a pipe and a blank below it.
	var lastAt []bool
	for idx, item := range items {
		if len(lastAt) <= item.Level {
			lastAt = append(lastAt, make([]bool, item.Level+1-len(lastAt))...)
		}
		lastAt[item.Level] = item.IsLast

		var prefix strings.Builder
		if item.Level > 0 {
			for l := 1; l < item.Level; l++ {
				if lastAt[l] {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		if item.Level == 0 {
			title = Bold(title)
		}
		if item.Collapsed {
			title += Dim(" ▸")
		}
		contents[idx] = prefix.String() + title
		widest = max(widest, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for idx, item := range items {
		b.WriteString(contents[idx])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(contents[idx])+2))
			b.WriteString(StyleBlue.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
