package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/findlunch/ordercore/internal/cart"
)

// State tracks a draft through its submission lifecycle.
type State string

const (
	// StateBuilding allows line and donation mutation.
	StateBuilding State = "building"
	// StateValidating marks a submit attempt in progress, before transport.
	StateValidating State = "validating"
	// StateSubmitting marks the payload as sent, awaiting the outcome.
	StateSubmitting State = "submitting"
	// StateCommitted is terminal: the order was registered and the cart emptied.
	StateCommitted State = "committed"
)

// maxLineAmount is the per-line quantity ceiling. Reaching it turns further
// increases into logged no-ops rather than errors.
const maxLineAmount = 999

// Draft is the in-progress, not-yet-submitted representation of an order for
// one restaurant. TotalPrice always equals the recomputed line sum plus the
// donation folded in on top; Donation never exceeds TotalPrice.
type Draft struct {
	ID            string
	RestaurantID  int64
	PickupTime    time.Time
	Authenticated bool

	TotalPrice decimal.Decimal
	Donation   decimal.Decimal

	UsedPoints     bool
	PointsNeeded   int
	PointsBalance  int
	PointsEligible bool

	cart  *cart.Cart
	state State
}

// State returns the draft's lifecycle state.
func (d *Draft) State() State { return d.state }

// Lines returns the draft's current lines, read through the shared cart.
func (d *Draft) Lines() []*cart.Line { return d.cart.Lines() }
