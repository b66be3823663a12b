package api

import (
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rental-schedule-backend/internal/model"
)

// Money formats rates for display in the configured locale and currency.
type Money struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoney parses a BCP 47 locale and an ISO 4217 currency code.
func NewMoney(locale, code string) (*Money, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return &Money{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Format renders an amount with its currency symbol.
func (m *Money) Format(d decimal.Decimal) string {
	return m.printer.Sprint(currency.Symbol(m.unit.Amount(d.InexactFloat64())))
}

func (h *Handler) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": h.money.Format,
		"hhmm": func(t time.Time) string {
			return t.In(time.Local).Format(model.TimeLayout)
		},
		"date": func(t time.Time) string {
			return t.In(time.Local).Format(model.DateLayout)
		},
		"datetime": func(t time.Time) string {
			return t.In(time.Local).Format("2006-01-02 15:04")
		},
	}
}
