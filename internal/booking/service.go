package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rental-schedule-backend/internal/authz"
	"rental-schedule-backend/internal/metrics"
	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/store"
)

// CreateRequest carries the raw form values of a new booking.
type CreateRequest struct {
	MachineID int64
	Customer  string
	Day       string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Service creates and deletes bookings.
type Service struct {
	store store.Store
	locks *machineLocks
}

// NewService creates a booking service over the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s, locks: newMachineLocks()}
}

// Interval resolves the request into absolute local timestamps.
func (r CreateRequest) Interval() (time.Time, time.Time, error) {
	day, err := model.ParseDay(r.Day)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad day %q", ErrInvalidInterval, r.Day)
	}
	start, err := model.Combine(day, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start time %q", ErrInvalidInterval, r.StartTime)
	}
	end, err := model.Combine(day, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end time %q", ErrInvalidInterval, r.EndTime)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidInterval
	}
	return start, end, nil
}

// Create validates and persists a booking. The overlap check and the insert
// run under the machine's lock and inside one transaction that row-locks the
// machine, so two concurrent creates cannot both pass the check.
func (s *Service) Create(ctx context.Context, actor authz.Actor, req CreateRequest) (*model.Booking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	start, end, err := req.Interval()
	if err != nil {
		metrics.BookingRejections.WithLabelValues("invalid_interval").Inc()
		return nil, err
	}

	booking := &model.Booking{
		MachineID: req.MachineID,
		Customer:  strings.TrimSpace(req.Customer),
		StartAt:   start,
		EndAt:     end,
	}

	unlock := s.locks.Lock(req.MachineID)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		machine, err := tx.LockMachine(ctx, req.MachineID)
		if err != nil {
			return err
		}
		if !machine.IsActive {
			return ErrMachineInactive
		}

		conflict, err := NewValidator(tx).HasConflict(ctx, req.MachineID, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}
		return tx.CreateBooking(ctx, booking)
	})
	if errors.Is(err, store.ErrOverlap) {
		err = fmt.Errorf("%w: %w", ErrSlotConflict, err)
	}
	if err != nil {
		metrics.BookingRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	log.Printf("booking %d created on machine %d for %q [%s, %s)",
		booking.ID, booking.MachineID, booking.Customer,
		start.Format(time.DateTime), end.Format(time.DateTime))
	return booking, nil
}

// Delete removes a booking and returns the removed record.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id int64) (*model.Booking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	var removed *model.Booking
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		b, err := tx.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteBooking(ctx, id); err != nil {
			return err
		}
		removed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsDeleted.Inc()
	log.Printf("booking %d on machine %d deleted", removed.ID, removed.MachineID)
	return removed, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrMachineInactive):
		return "inactive"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
