package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
)

// Persister is a gantt.Listener that writes committed gestures to the store.
// Listener callbacks cannot fail, so write errors are collected and read back
// through Err.
type Persister struct {
	gantt.NoopListener

	ctx     context.Context
	chartID string
	data    DatasetService

	mu   sync.Mutex
	errs []error
	// OnSaved runs after each successful write.
	OnSaved func()
}

var _ gantt.Listener = (*Persister)(nil)

func NewPersister(ctx context.Context, chartID string, data DatasetService) *Persister {
	return &Persister{ctx: ctx, chartID: chartID, data: data}
}

func (p *Persister) OnTimeLineMoveChange(_ string, _ []string, moved []gantt.MovedTimeLine) {
	p.record(p.data.ApplyMove(p.ctx, p.chartID, moved))
}

func (p *Persister) OnTimeLineStretchChange(_ string, ids []string, start, end *time.Time) {
	p.record(p.data.ApplyStretch(p.ctx, p.chartID, ids, start, end))
}

func (p *Persister) OnTimePointMoveFinished(point domain.TimePoint, date time.Time) {
	p.record(p.data.ApplyPointMove(p.ctx, p.chartID, point.ID, date))
}

func (p *Persister) record(err error) {
	if err == nil {
		if p.OnSaved != nil {
			p.OnSaved()
		}
		return
	}
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Err returns every write error so far, joined, and resets the list.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := errors.Join(p.errs...)
	p.errs = nil
	return err
}
