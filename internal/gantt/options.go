package gantt

import (
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/gantt/rowtree"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
	"github.com/google/uuid"
)

// Default geometry, in pixels.
const (
	DefaultRowHeight      = 30
	DefaultRowBuffer      = 10
	DefaultPerHourSpacing = 2
	DefaultEdgeSpacing    = 20
	DefaultPointSize      = 16
)

// Options configures an Engine. Zero values take the defaults above.
type Options struct {
	RowHeight       float64
	RowBuffer       int
	PerHourSpacing  float64
	EdgeSpacing     float64 // negative for none
	BufferWidth     float64
	MinStretchWidth float64
	AutoScrollStep  float64
	PointSize       float64
	DisableMove     bool
	DisableStretch  bool

	// RowID extracts a row's id; nil reads domain.Row.ID.
	RowID rowtree.IDFunc

	// EmptyRows, when set, is asked for n padding rows whenever the dataset
	// is too short to fill the viewport.
	EmptyRows func(n int) []domain.Row

	Listener Listener
	Observer Observer
}

// DefaultOptions returns Options with every default filled in.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.RowBuffer <= 0 {
		o.RowBuffer = DefaultRowBuffer
	}
	if o.PerHourSpacing <= 0 {
		o.PerHourSpacing = DefaultPerHourSpacing
	}
	if o.EdgeSpacing < 0 {
		o.EdgeSpacing = 0
	} else if o.EdgeSpacing == 0 {
		o.EdgeSpacing = DefaultEdgeSpacing
	}
	if o.BufferWidth <= 0 {
		o.BufferWidth = viewport.DefaultBufferWidth
	}
	if o.MinStretchWidth <= 0 {
		o.MinStretchWidth = drag.DefaultMinWidth
	}
	if o.AutoScrollStep <= 0 {
		o.AutoScrollStep = drag.DefaultAutoScrollStep
	}
	if o.PointSize <= 0 {
		o.PointSize = DefaultPointSize
	}
	if o.RowID == nil {
		o.RowID = rowtree.DefaultID
	}
	if o.Listener == nil {
		o.Listener = NoopListener{}
	}
	if o.Observer == nil {
		o.Observer = NoopObserver{}
	}
	return o
}

func (o Options) dragConfig() drag.Config {
	return drag.Config{
		EdgeMargin:     o.EdgeSpacing,
		MinWidth:       o.MinStretchWidth,
		AutoScrollStep: o.AutoScrollStep,
		DisableMove:    o.DisableMove,
		DisableStretch: o.DisableStretch,
	}
}

// NewEmptyRows is an EmptyRows factory producing blank rows with random ids.
func NewEmptyRows(n int) []domain.Row {
	rows := make([]domain.Row, n)
	for i := range rows {
		rows[i] = domain.Row{ID: "empty-" + uuid.NewString(), IsEmpty: true}
	}
	return rows
}
