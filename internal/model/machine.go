package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Machine represents a rentable unit of inventory.
type Machine struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:120;not null" json:"name"`
	Spec      string          `gorm:"size:250" json:"spec"`
	RateHour  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"rateHour"`
	RateDay   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"rateDay"`
	IsActive  bool            `gorm:"not null" json:"isActive"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"-"`
}
