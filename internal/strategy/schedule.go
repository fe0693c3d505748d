package strategy

import (
	"fmt"
	"strings"
	"time"

	"DCABacktest/internal/model"

	"github.com/robfig/cron/v3"
)

// Schedule is a purchase calendar backed by a cron expression.
type Schedule struct {
	expr  string
	sched cron.Schedule
}

// ParseSchedule parses a standard 5-field cron expression or a descriptor
// such as @weekly. An empty expression and @daily return nil, meaning a
// purchase every day.
func ParseSchedule(expr string) (*Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "@daily" || expr == "@midnight" {
		return nil, nil
	}
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", model.ErrInvalidInput, expr, err)
	}
	return &Schedule{expr: expr, sched: s}, nil
}

// Buys reports whether the schedule fires during the UTC calendar day of t.
func (s *Schedule) Buys(t time.Time) bool {
	y, m, d := t.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	next := s.sched.Next(dayStart.Add(-time.Nanosecond))
	return !next.IsZero() && next.Before(dayStart.AddDate(0, 0, 1))
}

// Describe returns a label for reports.
func (s *Schedule) Describe() string {
	switch s.expr {
	case "@weekly":
		return "Weekly"
	case "@monthly":
		return "Monthly"
	case "@yearly", "@annually":
		return "Yearly"
	}
	return s.expr
}

// Calendar returns s as a model.PurchaseCalendar, keeping a nil schedule nil
// inside the interface.
func (s *Schedule) Calendar() model.PurchaseCalendar {
	if s == nil {
		return nil
	}
	return s
}
