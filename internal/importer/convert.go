package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/google/uuid"
)

// Dataset is a converted import, flat and ready for persistence.
type Dataset struct {
	Chart     *domain.Chart
	Rows      []*domain.Row
	TimeLines []*domain.TimeLine
	Points    []*domain.TimePoint
}

// Convert turns a validated schema into store records. Every record gets a
// fresh id, so one file can be imported any number of times; file ids are
// only used to resolve nesting. Call ValidateImportSchema first.
func Convert(schema *ImportSchema) (*Dataset, error) {
	now := time.Now().UTC().Truncate(time.Second)
	ds := &Dataset{
		Chart: &domain.Chart{
			ID:        uuid.New().String(),
			Name:      schema.Chart.Name,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	c := converter{defaults: schema.Chart.Defaults, fresh: true}
	order := 0
	var walk func(rows []RowImport, parentID *string) error
	walk = func(rows []RowImport, parentID *string) error {
		for _, ri := range rows {
			row := &domain.Row{
				ID:         uuid.New().String(),
				ChartID:    ds.Chart.ID,
				ParentID:   parentID,
				Title:      domain.CoalesceStr(ri.Title, ri.ID),
				OrderIndex: order,
			}
			order++
			ds.Rows = append(ds.Rows, row)
			for _, ti := range ri.TimeLines {
				tl, err := c.timeline(row.ID, ti)
				if err != nil {
					return fmt.Errorf("row %q: %w", ri.ID, err)
				}
				for i := range tl.Points {
					ds.Points = append(ds.Points, &tl.Points[i])
				}
				tl.Points = nil
				ds.TimeLines = append(ds.TimeLines, tl)
			}
			id := row.ID
			if err := walk(ri.Children, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(schema.Rows, nil); err != nil {
		return nil, err
	}
	return ds, nil
}

// Rows converts a validated schema straight into the nested rows the chart
// engine consumes, keeping the file's ids. Segments and points without an id
// get a random one.
func Rows(schema *ImportSchema) ([]domain.Row, error) {
	c := converter{defaults: schema.Chart.Defaults}
	var walk func(rows []RowImport, parentID *string) ([]domain.Row, error)
	walk = func(rows []RowImport, parentID *string) ([]domain.Row, error) {
		out := make([]domain.Row, 0, len(rows))
		for i, ri := range rows {
			row := domain.Row{
				ID:         ri.ID,
				ParentID:   parentID,
				Title:      domain.CoalesceStr(ri.Title, ri.ID),
				OrderIndex: i,
			}
			for _, ti := range ri.TimeLines {
				tl, err := c.timeline(ri.ID, ti)
				if err != nil {
					return nil, fmt.Errorf("row %q: %w", ri.ID, err)
				}
				row.TimeLines = append(row.TimeLines, *tl)
			}
			id := ri.ID
			children, err := walk(ri.Children, &id)
			if err != nil {
				return nil, err
			}
			row.Children = children
			out = append(out, row)
		}
		return out, nil
	}
	return walk(schema.Rows, nil)
}

type converter struct {
	defaults *DefaultsImport
	fresh    bool // ignore file ids
}

func (c converter) id(fileID string) string {
	if c.fresh || fileID == "" {
		return uuid.New().String()
	}
	return fileID
}

func (c converter) timeline(rowID string, ti TimeLineImport) (*domain.TimeLine, error) {
	start, err := ParseInstant(ti.Start)
	if err != nil {
		return nil, fmt.Errorf("timeline start: %w", err)
	}
	end, err := ParseInstant(ti.End)
	if err != nil {
		return nil, fmt.Errorf("timeline end: %w", err)
	}

	var defColor string
	var defMove, defStretch *bool
	if c.defaults != nil {
		defColor, defMove, defStretch = c.defaults.Color, c.defaults.DisableMove, c.defaults.DisableStretch
	}
	tl := &domain.TimeLine{
		ID:             c.id(ti.ID),
		RowID:          rowID,
		Start:          start,
		End:            end,
		Label:          ti.Label,
		Icon:           ti.Icon,
		Color:          domain.CoalesceStr(ti.Color, defColor),
		DisableMove:    domain.BoolFromPtrWithDefault(false, ti.DisableMove, defMove),
		DisableStretch: domain.BoolFromPtrWithDefault(false, ti.DisableStretch, defStretch),
	}
	for _, pi := range ti.Points {
		at, err := ParseInstant(pi.At)
		if err != nil {
			return nil, fmt.Errorf("point: %w", err)
		}
		tl.Points = append(tl.Points, domain.TimePoint{
			ID:         c.id(pi.ID),
			TimeLineID: tl.ID,
			At:         at,
			Icon:       pi.Icon,
		})
	}
	return tl, nil
}
