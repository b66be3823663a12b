// Package machine implements the inventory lifecycle: create, edit,
// deactivate and delete rentable machines.
package machine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"rental-schedule-backend/internal/authz"
	"rental-schedule-backend/internal/metrics"
	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/store"
)

// ErrInvalidNumeric is returned when a rate is not a non-negative number.
var ErrInvalidNumeric = errors.New("rates must be valid non-negative numbers")

// Form carries the raw values of the machine form.
type Form struct {
	Name     string
	Spec     string
	RateHour string
	RateDay  string
	IsActive bool
}

// ParseRate parses a non-negative decimal rate.
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumeric, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidNumeric, s)
	}
	return d, nil
}

func (f Form) apply(m *model.Machine) error {
	rateHour, err := ParseRate(f.RateHour)
	if err != nil {
		return err
	}
	rateDay, err := ParseRate(f.RateDay)
	if err != nil {
		return err
	}
	m.Name = strings.TrimSpace(f.Name)
	m.Spec = strings.TrimSpace(f.Spec)
	m.RateHour = rateHour
	m.RateDay = rateDay
	return nil
}

// Service manages machine records.
type Service struct {
	store store.Store
}

// NewService creates a machine service over the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns all machines ordered by id.
func (s *Service) List(ctx context.Context) ([]model.Machine, error) {
	return s.store.ListMachines(ctx, false)
}

// ListActive returns the machines that can be scheduled and booked.
func (s *Service) ListActive(ctx context.Context) ([]model.Machine, error) {
	return s.store.ListMachines(ctx, true)
}

// Get returns one machine or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*model.Machine, error) {
	return s.store.GetMachine(ctx, id)
}

// Create adds a new, active machine.
func (s *Service) Create(ctx context.Context, actor authz.Actor, f Form) (*model.Machine, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	m := &model.Machine{IsActive: true}
	if err := f.apply(m); err != nil {
		return nil, err
	}
	if err := s.store.CreateMachine(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("machine %d %q created", m.ID, m.Name)
	return m, nil
}

// Update overwrites the editable fields of a machine, including its active flag.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id int64, f Form) (*model.Machine, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.apply(m); err != nil {
		return nil, err
	}
	m.IsActive = f.IsActive
	if err := s.store.UpdateMachine(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("machine %d %q updated (active=%t)", m.ID, m.Name, m.IsActive)
	return m, nil
}

// Deactivate hides a machine from scheduling. Its bookings are kept.
func (s *Service) Deactivate(ctx context.Context, actor authz.Actor, id int64) (*model.Machine, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsActive = false
	if err := s.store.UpdateMachine(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("machine %d %q deactivated", m.ID, m.Name)
	return m, nil
}

// Delete removes a machine and all of its bookings, returning the removed record.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id int64) (*model.Machine, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteMachine(ctx, id); err != nil {
		return nil, err
	}
	metrics.MachinesDeleted.Inc()
	log.Printf("machine %d %q deleted with its bookings", m.ID, m.Name)
	return m, nil
}
