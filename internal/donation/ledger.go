// Package donation implements the 10-cent rounding ledger. A donation is the
// surcharge a user opts into so the total lands on a round 10-cent figure.
package donation

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
	"github.com/findlunch/ordercore/pkg/logger"
	"github.com/findlunch/ordercore/pkg/money"
)

// Amounts is the pair of monetary values the ledger operates on. Total always
// includes the donation; Total minus Donation is the priceable base.
type Amounts struct {
	Total    decimal.Decimal
	Donation decimal.Decimal
}

// Ledger rounds a running total up or down to 10-cent boundaries while
// tracking the donated share. Pure apart from logging.
type Ledger struct {
	logg *logger.Logger
}

// NewLedger builds a ledger. The logger may be nil.
func NewLedger(logg *logger.Logger) *Ledger {
	return &Ledger{logg: logg}
}

// guard checks the invariants shared by increment and decrement, in fixed
// order. A nil error with corrected=true means the donation was clamped to
// zero and the requested step must be skipped.
func (l *Ledger) guard(ctx context.Context, a Amounts) (corrected Amounts, skip bool, err error) {
	if a.Total.IsNegative() {
		return a, false, pkgerrors.New(pkgerrors.CodeInvalidState, "total price is negative").
			WithDetails(map[string]any{"total_price": a.Total})
	}
	if a.Total.LessThan(a.Donation) {
		if l.logg != nil {
			l.logg.Error(ctx, "donation exceeds total price", nil)
		}
		return a, false, pkgerrors.New(pkgerrors.CodeCriticalState, "total price is smaller than donation").
			WithDetails(map[string]any{"total_price": a.Total, "donation": a.Donation})
	}
	if a.Donation.IsNegative() {
		if l.logg != nil {
			l.logg.Warn(ctx, "negative donation clamped to zero")
		}
		return Amounts{Total: a.Total, Donation: money.Zero}, true, nil
	}
	return a, false, nil
}

// Increment raises the total to the next 10-cent boundary and books the
// delta as donation. A total already on a boundary moves a full 10 cents
// forward, so each step adds between 1 and 10 cents.
func (l *Ledger) Increment(ctx context.Context, a Amounts) (Amounts, error) {
	a, skip, err := l.guard(ctx, a)
	if err != nil || skip {
		return a, err
	}

	newTotal := money.CeilToNextTenth(a.Total)
	return Amounts{
		Total:    newTotal,
		Donation: money.RoundCents(a.Donation.Add(newTotal.Sub(a.Total))),
	}, nil
}

// Decrement removes 10 cents from the donation by flooring the total, or
// collapses the whole remaining donation when 10 cents or less is left. The
// total never drops below the priceable base and the donation never goes
// negative.
func (l *Ledger) Decrement(ctx context.Context, a Amounts) (Amounts, error) {
	if !a.Donation.IsPositive() {
		if l.logg != nil {
			l.logg.Warn(ctx, "decrement requested with no donation left")
		}
		return Amounts{Total: a.Total, Donation: money.Zero}, nil
	}

	a, skip, err := l.guard(ctx, a)
	if err != nil || skip {
		return a, err
	}

	if a.Donation.GreaterThan(money.TenCents()) {
		newTotal := money.FloorToPrevTenth(a.Total)
		return Amounts{
			Total:    newTotal,
			Donation: money.RoundCents(a.Donation.Add(newTotal.Sub(a.Total))),
		}, nil
	}

	return Amounts{
		Total:    money.RoundCents(a.Total.Sub(a.Donation)),
		Donation: money.Zero,
	}, nil
}
