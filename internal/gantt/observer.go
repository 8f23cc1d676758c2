package gantt

import (
	"io"
	"log/slog"
	"time"
)

// WindowEvent describes one windowing pass.
type WindowEvent struct {
	Reason   string
	Full     bool
	Skipped  bool
	Rows     int
	Duration time.Duration
}

// GestureEvent describes a finished gesture.
type GestureEvent struct {
	Kind      string
	RowID     string
	IDs       []string
	Committed bool
	Duration  time.Duration
}

// Observer receives engine telemetry.
type Observer interface {
	ObserveWindow(WindowEvent)
	ObserveGesture(GestureEvent)
	ObserveRejected(op, rowID string, err error)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveWindow(WindowEvent) {}
func (NoopObserver) ObserveGesture(GestureEvent) {}
func (NoopObserver) ObserveRejected(string, string, error) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes engine events to w as structured text.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (o *logObserver) ObserveWindow(e WindowEvent) {
	o.logger.Debug("gantt_window",
		"reason", e.Reason,
		"full", e.Full,
		"skipped", e.Skipped,
		"rows", e.Rows,
		"duration_us", e.Duration.Microseconds(),
	)
}

func (o *logObserver) ObserveGesture(e GestureEvent) {
	o.logger.Info("gantt_gesture",
		"kind", e.Kind,
		"row_id", e.RowID,
		"ids", e.IDs,
		"committed", e.Committed,
		"duration_ms", e.Duration.Milliseconds(),
	)
}

func (o *logObserver) ObserveRejected(op, rowID string, err error) {
	o.logger.Warn("gantt_rejected", "op", op, "row_id", rowID, "error", err.Error())
}
