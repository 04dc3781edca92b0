package orders

import "github.com/shopspring/decimal"

// Payload is the flattened wire projection of a draft, posted once per
// submission attempt and never mutated afterwards. Field names follow the
// registration endpoint's contract.
type Payload struct {
	ID                int64           `json:"id"`
	Donation          decimal.Decimal `json:"donation"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	UsedPoints        bool            `json:"usedPoints"`
	PointsCollected   bool            `json:"pointsCollected"`
	Points            int             `json:"points"`
	ReservationNumber int64           `json:"reservationNumber"`
	CollectTime       int64           `json:"collectTime"`
	Restaurant        RestaurantRef   `json:"restaurant"`
	ReservationOffers []OfferLine     `json:"reservation_offers"`
}

// RestaurantRef reduces the restaurant to its identifier; nothing more is
// sent with the request.
type RestaurantRef struct {
	ID int64 `json:"id"`
}

// OfferLine is one flattened cart line.
type OfferLine struct {
	Offer  OfferRef `json:"offer"`
	Amount int      `json:"amount"`
}

// OfferRef reduces a catalog item to its identifier.
type OfferRef struct {
	ID int64 `json:"id"`
}
