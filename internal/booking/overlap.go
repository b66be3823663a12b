package booking

import (
	"context"
	"fmt"
	"time"

	"rental-schedule-backend/internal/model"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BookingLister is the read side of the store the validator needs.
type BookingLister interface {
	ListBookingsByMachine(ctx context.Context, machineID int64) ([]model.Booking, error)
}

// Validator decides whether a candidate interval conflicts with a machine's
// existing bookings. It never writes.
type Validator struct {
	bookings BookingLister
}

// NewValidator creates a Validator reading through the given lister.
func NewValidator(bookings BookingLister) *Validator {
	return &Validator{bookings: bookings}
}

// HasConflict reports whether [start, end) intersects any booking of the
// machine. The caller guarantees end > start.
func (v *Validator) HasConflict(ctx context.Context, machineID int64, start, end time.Time) (bool, error) {
	conflicts, err := v.Conflicts(ctx, machineID, start, end)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Conflicts returns the bookings of the machine that intersect [start, end).
func (v *Validator) Conflicts(ctx context.Context, machineID int64, start, end time.Time) ([]model.Booking, error) {
	existing, err := v.bookings.ListBookingsByMachine(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for overlap check: %w", err)
	}
	var conflicts []model.Booking
	for _, b := range existing {
		if Overlaps(b.StartAt, b.EndAt, start, end) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
