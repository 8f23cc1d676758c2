package domain

import "time"

// Row is one node of the hierarchical dataset. Rows loaded from the store are
// flat (ParentID set, Children empty); rows handed to the chart engine are
// nested through Children.
type Row struct {
	ID         string
	ChartID    string
	ParentID   *string
	Title      string
	OrderIndex int
	IsEmpty    bool // synthetic padding row
	TimeLines  []TimeLine
	Children   []Row
}

// HasChildren reports whether the row carries nested rows.
func (r *Row) HasChildren() bool {
	return len(r.Children) > 0
}

// TimeLine is a dated interval owned by a row, rendered as a bar.
type TimeLine struct {
	ID             string
	RowID          string
	Start          time.Time
	End            time.Time
	Label          string
	Icon           string
	Color          string
	DisableMove    bool
	DisableStretch bool
	Points         []TimePoint
}

// IsSameDate reports whether the segment has zero length.
func (t *TimeLine) IsSameDate() bool {
	return t.Start.Equal(t.End)
}

// Contains reports whether at lies inside [Start, End].
func (t *TimeLine) Contains(at time.Time) bool {
	return !at.Before(t.Start) && !at.After(t.End)
}

// TimePoint is a marker bound to one timeline at an instant inside it.
type TimePoint struct {
	ID         string
	TimeLineID string
	At         time.Time
	Icon       string
}
