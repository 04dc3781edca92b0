// Package orders composes cart, pricing, donation and loyalty state into a
// submittable reservation. It owns the draft lifecycle from first line to
// committed order.
package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/findlunch/ordercore/internal/cart"
	"github.com/findlunch/ordercore/internal/donation"
	"github.com/findlunch/ordercore/internal/loyalty"
	"github.com/findlunch/ordercore/internal/pricing"
	"github.com/findlunch/ordercore/pkg/clock"
	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
	"github.com/findlunch/ordercore/pkg/logger"
	"github.com/findlunch/ordercore/pkg/metrics"
	"github.com/findlunch/ordercore/pkg/money"
)

// Submitter carries an assembled payload to the registration endpoint.
type Submitter interface {
	Submit(ctx context.Context, payload any) error
}

// BalanceFetcher returns the authenticated user's points at a restaurant.
type BalanceFetcher interface {
	Balance(ctx context.Context, restaurantID int64) (int, error)
}

// ServiceParams wires the assembler's collaborators.
type ServiceParams struct {
	Carts     *cart.Store
	Ledger    *donation.Ledger
	Submitter Submitter
	Balances  BalanceFetcher
	Clock     clock.Clock
	Logger    *logger.Logger
	Metrics   *metrics.OrderFlowMetrics

	// PrepTime is the lead time an order needs before pickup; it seeds the
	// default pickup instant when the caller does not choose one.
	PrepTime time.Duration
}

// Service is the order assembler. One draft is active per restaurant at a
// time; opening a new one replaces the old.
type Service struct {
	carts     *cart.Store
	ledger    *donation.Ledger
	submitter Submitter
	balances  BalanceFetcher
	clock     clock.Clock
	logg      *logger.Logger
	metrics   *metrics.OrderFlowMetrics
	prepTime  time.Duration

	mu           sync.Mutex
	drafts       map[string]*Draft
	byRestaurant map[int64]string
}

// NewService builds the assembler backed by the provided stack.
func NewService(p ServiceParams) (*Service, error) {
	if p.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if p.Ledger == nil {
		return nil, fmt.Errorf("donation ledger required")
	}
	if p.Submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if p.Clock == nil {
		p.Clock = clock.System()
	}
	if p.PrepTime <= 0 {
		p.PrepTime = 10 * time.Minute
	}
	return &Service{
		carts:        p.Carts,
		ledger:       p.Ledger,
		submitter:    p.Submitter,
		balances:     p.Balances,
		clock:        p.Clock,
		logg:         p.Logger,
		metrics:      p.Metrics,
		prepTime:     p.PrepTime,
		drafts:       make(map[string]*Draft),
		byRestaurant: make(map[int64]string),
	}, nil
}

// OpenDraft starts a fresh draft over the restaurant's current cart,
// replacing any previously open draft for the same restaurant. For
// authenticated users the points balance is fetched; a failing fetch is
// logged and leaves points payment unavailable without blocking checkout.
func (s *Service) OpenDraft(ctx context.Context, restaurantID int64, authenticated bool, pickup time.Time) (*Draft, error) {
	c := s.carts.GetCart(restaurantID)
	if pickup.IsZero() {
		pickup = clock.EarliestPickup(s.clock, s.prepTime)
	}

	d := &Draft{
		ID:            uuid.NewString(),
		RestaurantID:  restaurantID,
		PickupTime:    pickup,
		Authenticated: authenticated,
		Donation:      money.Zero,
		cart:          c,
		state:         StateBuilding,
	}
	s.recompute(d)

	if authenticated && s.balances != nil {
		balance, err := s.balances.Balance(ctx, restaurantID)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(ctx, "points balance unavailable, cash checkout only")
			}
		} else {
			d.PointsBalance = balance
			d.PointsEligible = loyalty.Eligible(balance, d.PointsNeeded)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if oldID, ok := s.byRestaurant[restaurantID]; ok {
		delete(s.drafts, oldID)
	}
	s.drafts[d.ID] = d
	s.byRestaurant[restaurantID] = d.ID
	return d, nil
}

// Draft returns the open draft with the given id.
func (s *Service) Draft(draftID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[draftID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	return d, nil
}

// Discard drops the draft, typically on navigation away. A submission
// completing afterwards becomes a no-op.
func (s *Service) Discard(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked(draftID)
}

func (s *Service) discardLocked(draftID string) {
	if d, ok := s.drafts[draftID]; ok {
		delete(s.drafts, draftID)
		if s.byRestaurant[d.RestaurantID] == draftID {
			delete(s.byRestaurant, d.RestaurantID)
		}
	}
}

// IncreaseQuantity raises a line's amount by one. At the 999 ceiling the
// call is a logged no-op, not an error.
func (s *Service) IncreaseQuantity(ctx context.Context, draftID string, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, line, err := s.lineLocked(draftID, itemID)
	if err != nil {
		return err
	}
	if line.Amount >= maxLineAmount {
		if s.logg != nil {
			s.logg.Warn(ctx, "maximum amount of product reached")
		}
		return nil
	}
	line.Amount++
	s.recompute(d)
	return nil
}

// DecreaseQuantity lowers a line's amount by one, removing the line entirely
// when it would reach zero.
func (s *Service) DecreaseQuantity(ctx context.Context, draftID string, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, line, err := s.lineLocked(draftID, itemID)
	if err != nil {
		return err
	}
	if line.Amount <= 1 {
		d.cart.Remove(itemID)
	} else {
		line.Amount--
	}
	s.recompute(d)
	return nil
}

// IncrementDonation rounds the draft total up to the next 10-cent boundary.
// A critical inconsistency discards the draft and propagates.
func (s *Service) IncrementDonation(ctx context.Context, draftID string) error {
	return s.stepDonation(ctx, draftID, "increment")
}

// DecrementDonation removes one 10-cent step, or the whole remaining
// donation when little is left.
func (s *Service) DecrementDonation(ctx context.Context, draftID string) error {
	return s.stepDonation(ctx, draftID, "decrement")
}

func (s *Service) stepDonation(ctx context.Context, draftID, direction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draftID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	if d.state != StateBuilding {
		return pkgerrors.New(pkgerrors.CodeSubmissionInFlight, "draft is being submitted")
	}

	in := donation.Amounts{Total: d.TotalPrice, Donation: d.Donation}
	var (
		out donation.Amounts
		err error
	)
	if direction == "increment" {
		out, err = s.ledger.Increment(ctx, in)
	} else {
		out, err = s.ledger.Decrement(ctx, in)
	}
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeCriticalState) {
			s.discardLocked(draftID)
		}
		return err
	}

	d.TotalPrice = out.Total
	d.Donation = out.Donation
	s.metrics.IncDonationStep(direction)
	return nil
}

// SetUsePoints toggles paying the order with loyalty points. Turning it on
// requires eligibility computed from the latest balance.
func (s *Service) SetUsePoints(draftID string, use bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draftID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	if use && !d.Authenticated {
		return pkgerrors.New(pkgerrors.CodeValidation, "points payment requires login")
	}
	if use && !d.PointsEligible {
		return pkgerrors.New(pkgerrors.CodeValidation, "not enough points for this order")
	}
	d.UsedPoints = use
	return nil
}

// Validate checks a draft against the submission rules. All broken rules are
// reported together.
func (s *Service) Validate(d *Draft) error {
	var errs error
	if d.TotalPrice.LessThan(d.Donation) || d.TotalPrice.IsNegative() {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeImpossiblePrice, "total price is impossible").
			WithDetails(map[string]any{"total_price": d.TotalPrice, "donation": d.Donation}))
	}
	if d.cart.Len() == 0 {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeEmptyOrder, "order contains no items"))
	}
	return errs
}

// AssemblePayload flattens the draft into its wire projection. Call only
// after Validate succeeded.
func (s *Service) AssemblePayload(d *Draft) Payload {
	p := Payload{
		Donation:        d.Donation,
		TotalPrice:      d.TotalPrice,
		PointsCollected: true,
		CollectTime:     clock.CollectTime(d.PickupTime),
		Restaurant:      RestaurantRef{ID: d.RestaurantID},
	}
	if d.Authenticated {
		p.UsedPoints = d.UsedPoints
		p.PointsCollected = !d.UsedPoints
		p.Points = d.PointsNeeded
	}
	lines := d.cart.Lines()
	p.ReservationOffers = make([]OfferLine, 0, len(lines))
	for _, line := range lines {
		p.ReservationOffers = append(p.ReservationOffers, OfferLine{
			Offer:  OfferRef{ID: line.Item.ID},
			Amount: line.Amount,
		})
	}
	return p
}

// Submit validates, assembles and sends the draft. On success the
// restaurant's cart is emptied and the draft committed; on failure the draft
// returns to building for a retry. Only one submission may be in flight per
// draft. A submission completing after the draft was discarded is a no-op.
func (s *Service) Submit(ctx context.Context, draftID string) error {
	s.mu.Lock()
	d, ok := s.drafts[draftID]
	if !ok {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	if d.state != StateBuilding {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeSubmissionInFlight, "submission already in flight")
	}
	d.state = StateValidating

	if err := s.Validate(d); err != nil {
		d.state = StateBuilding
		s.mu.Unlock()
		s.metrics.IncSubmitFailure("validation")
		return err
	}

	payload := s.AssemblePayload(d)
	d.state = StateSubmitting
	s.mu.Unlock()

	start := time.Now()
	err := s.submitter.Submit(ctx, payload)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.drafts[draftID]; !ok || current != d {
		// draft was discarded while the call was in flight
		if s.logg != nil {
			s.logg.Warn(ctx, "submission outcome discarded with its draft")
		}
		return nil
	}

	if err != nil {
		d.state = StateBuilding
		s.metrics.IncSubmitFailure("transport")
		s.metrics.ObserveSubmit("failure", elapsed)
		return err
	}

	d.state = StateCommitted
	s.carts.EmptyCart(d.RestaurantID)
	s.discardLocked(draftID)
	s.metrics.IncSubmitSuccess(fmt.Sprintf("%d", d.RestaurantID))
	s.metrics.ObserveSubmit("success", elapsed)
	if s.logg != nil {
		s.logg.Info(s.logg.WithRestaurantID(ctx, d.RestaurantID), "order registered")
	}
	return nil
}

// recompute re-derives price and loyalty state after a quantity change. A
// fresh price base invalidates any prior donation rounding, so the donation
// resets to zero.
func (s *Service) recompute(d *Draft) {
	lines := d.cart.Lines()
	d.TotalPrice = pricing.Total(lines)
	d.Donation = money.Zero
	d.PointsNeeded = loyalty.PointsNeeded(lines)
	d.PointsEligible = loyalty.Eligible(d.PointsBalance, d.PointsNeeded)
	if !d.PointsEligible {
		d.UsedPoints = false
	}
}

func (s *Service) lineLocked(draftID string, itemID int64) (*Draft, *cart.Line, error) {
	d, ok := s.drafts[draftID]
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	if d.state != StateBuilding {
		return nil, nil, pkgerrors.New(pkgerrors.CodeSubmissionInFlight, "draft is being submitted")
	}
	for _, line := range d.cart.Lines() {
		if line.Item.ID == itemID {
			return d, line, nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in draft")
}
