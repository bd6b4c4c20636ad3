package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount formats an amount with two decimals followed by its currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if currency != "" {
		s += " " + currency
	}

	return s
}

// FormatDate formats a time.Time into DD/MM/YYYY.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("02/01/2006")
}

// CallCtx returns a context bounding one gateway call, including any artificial delay.
func CallCtx(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
