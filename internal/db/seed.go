package db

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/store"
)

// SampleMachines is the inventory seeded into an empty database.
func SampleMachines() []model.Machine {
	return []model.Machine{
		{Name: "Machine 1", Spec: "Intel Core Ultra 9 + RTX 5070", RateHour: decimal.NewFromInt(60), RateDay: decimal.NewFromInt(450), IsActive: true},
		{Name: "Machine 2", Spec: "Ryzen 7 7800X3D + RX 9060 XT", RateHour: decimal.NewFromInt(80), RateDay: decimal.NewFromInt(600), IsActive: true},
	}
}

// Seed inserts the sample machines when the machines table is empty and
// returns how many were created. Running it again is a no-op.
func Seed(ctx context.Context, s store.Store) (int, error) {
	created := 0
	err := s.Transaction(ctx, func(tx store.Store) error {
		n, err := tx.CountMachines(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, m := range SampleMachines() {
			m := m
			if err := tx.CreateMachine(ctx, &m); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed failed: %w", err)
	}
	if created > 0 {
		log.Printf("Seeded %d sample machines.", created)
	}
	return created, nil
}
