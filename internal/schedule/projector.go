// Package schedule projects bookings onto a day-by-hour-by-machine grid.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rental-schedule-backend/internal/model"
)

// SlotsPerDay is the number of hourly slots in a grid.
const SlotsPerDay = 24

// Source is the read side of the store the projector needs.
type Source interface {
	ListMachines(ctx context.Context, activeOnly bool) ([]model.Machine, error)
	ListBookingsInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error)
}

// Cell is one hour slot of one machine.
type Cell struct {
	Hour    time.Time      `json:"hour"`
	Booking *model.Booking `json:"booking,omitempty"`
}

// Row holds one active machine and its bookings that touch the day.
type Row struct {
	Machine  model.Machine   `json:"machine"`
	Bookings []model.Booking `json:"bookings"`
	Cells    []Cell          `json:"cells"`
}

// Grid is the projection of one calendar day.
type Grid struct {
	Day   time.Time   `json:"day"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Hours []time.Time `json:"hours"`
	Rows  []Row       `json:"rows"`
}

// Date returns the grid's day as YYYY-MM-DD.
func (g *Grid) Date() string { return g.Day.Format(model.DateLayout) }

// Prev returns the previous day as YYYY-MM-DD.
func (g *Grid) Prev() string { return g.Day.AddDate(0, 0, -1).Format(model.DateLayout) }

// Next returns the next day as YYYY-MM-DD.
func (g *Grid) Next() string { return g.Day.AddDate(0, 0, 1).Format(model.DateLayout) }

// Projector builds grids from the store.
type Projector struct {
	src Source
}

// NewProjector creates a Projector reading from src.
func NewProjector(src Source) *Projector {
	return &Projector{src: src}
}

// Project builds the grid for the calendar day containing day. The window is
// [midnight, midnight+24h). A booking crossing midnight shows up on both days
// untruncated.
func (p *Projector) Project(ctx context.Context, day time.Time) (*Grid, error) {
	start := model.Midnight(day)
	end := start.Add(SlotsPerDay * time.Hour)

	machines, err := p.src.ListMachines(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load machines for %s: %w", start.Format(model.DateLayout), err)
	}
	bookings, err := p.src.ListBookingsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", start.Format(model.DateLayout), err)
	}

	byMachine := make(map[int64][]model.Booking, len(machines))
	for _, b := range bookings {
		b.StartAt = b.StartAt.In(time.Local)
		b.EndAt = b.EndAt.In(time.Local)
		byMachine[b.MachineID] = append(byMachine[b.MachineID], b)
	}

	hours := make([]time.Time, SlotsPerDay)
	for h := range hours {
		hours[h] = start.Add(time.Duration(h) * time.Hour)
	}

	rows := make([]Row, 0, len(machines))
	for _, m := range machines {
		own := byMachine[m.ID]
		sort.Slice(own, func(i, j int) bool { return own[i].StartAt.Before(own[j].StartAt) })

		cells := make([]Cell, SlotsPerDay)
		for h, hour := range hours {
			cells[h].Hour = hour
			for i := range own {
				if own[i].Covers(hour) {
					cells[h].Booking = &own[i]
					break
				}
			}
		}
		if own == nil {
			own = []model.Booking{}
		}
		rows = append(rows, Row{Machine: m, Bookings: own, Cells: cells})
	}

	return &Grid{Day: start, Start: start, End: end, Hours: hours, Rows: rows}, nil
}
