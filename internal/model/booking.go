package model

import "time"

// Booking is a reserved half-open interval [StartAt, EndAt) on one machine.
type Booking struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	MachineID int64     `gorm:"index;not null" json:"machineId"`
	Customer  string    `gorm:"size:120;not null" json:"customer"`
	StartAt   time.Time `gorm:"not null;index" json:"startAt"`
	EndAt     time.Time `gorm:"not null" json:"endAt"`
	CreatedAt time.Time `json:"-"`
}

// Covers reports whether t falls inside the booking's interval.
func (b Booking) Covers(t time.Time) bool {
	return !t.Before(b.StartAt) && t.Before(b.EndAt)
}
