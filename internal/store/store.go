package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rental-schedule-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Transaction runs fn against a Store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	ListMachines(ctx context.Context, activeOnly bool) ([]model.Machine, error)
	GetMachine(ctx context.Context, id int64) (*model.Machine, error)
	// LockMachine loads a machine and holds a row lock on it until the
	// surrounding transaction ends. SQLite has no row locks; there the
	// single-connection pool serializes writers instead.
	LockMachine(ctx context.Context, id int64) (*model.Machine, error)
	CountMachines(ctx context.Context) (int64, error)
	CreateMachine(ctx context.Context, m *model.Machine) error
	UpdateMachine(ctx context.Context, m *model.Machine) error
	DeleteMachine(ctx context.Context, id int64) error

	ListBookingsByMachine(ctx context.Context, machineID int64) ([]model.Booking, error)
	ListBookingsInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id int64) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) ListMachines(ctx context.Context, activeOnly bool) ([]model.Machine, error) {
	var machines []model.Machine
	q := s.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("id ASC").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *gormStore) LockMachine(ctx context.Context, id int64) (*model.Machine, error) {
	q := s.db.WithContext(ctx)
	if s.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.Machine
	if err := q.First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *gormStore) CountMachines(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Machine{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count machines: %w", err)
	}
	return n, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create machine %q: %w", m.Name, err)
	}
	return nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, m *model.Machine) error {
	res := s.db.WithContext(ctx).
		Model(&model.Machine{ID: m.ID}).
		Select("name", "spec", "rate_hour", "rate_day", "is_active").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("failed to update machine %d: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows for a no-op update, so confirm.
		if _, err := s.GetMachine(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteMachine removes a machine's bookings and then the machine itself in
// one transaction.
func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Machine
		if err := tx.Select("id").First(&m, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings of machine %d: %w", id, err)
		}
		if err := tx.Delete(&model.Machine{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete machine %d: %w", id, err)
		}
		return nil
	})
}

func (s *gormStore) ListBookingsByMachine(ctx context.Context, machineID int64) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("start_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings of machine %d: %w", machineID, err)
	}
	return bookings, nil
}

// ListBookingsInRange returns every booking whose interval intersects [from, to).
func (s *gormStore) ListBookingsInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).
		Where("start_at < ? AND end_at > ?", to, from).
		Order("start_at ASC, id ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings between %s and %s: %w", from, to, err)
	}
	return bookings, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create booking on machine %d: %w", b.MachineID, translate(err))
	}
	return nil
}

func (s *gormStore) DeleteBooking(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Booking{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == overlapSQLState {
		return fmt.Errorf("%w (%s)", ErrOverlap, pgErr.ConstraintName)
	}
	return err
}
