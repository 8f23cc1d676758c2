package domain

import (
	"fmt"
	"strings"
	"time"
)

// Chart is a named dataset of rows rendered as one gantt chart.
type Chart struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateName checks that the chart has a usable display name.
func (c *Chart) ValidateName() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("chart name is required")
	}
	if len(c.Name) > 120 {
		return fmt.Errorf("chart name must be at most 120 characters")
	}
	return nil
}
