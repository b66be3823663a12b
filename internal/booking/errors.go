package booking

import "errors"

var (
	// ErrInvalidInterval is returned when a booking does not end after it starts,
	// or its day or times cannot be parsed.
	ErrInvalidInterval = errors.New("end time must be after start time")
	// ErrSlotConflict is returned when the interval overlaps an existing booking.
	ErrSlotConflict = errors.New("time slot is already booked")
	// ErrMachineInactive is returned when booking a deactivated machine.
	ErrMachineInactive = errors.New("machine is not available for booking")
)
