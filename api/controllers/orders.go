package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/findlunch/ordercore/api/responses"
	"github.com/findlunch/ordercore/api/validators"
	"github.com/findlunch/ordercore/internal/orders"
	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
	"github.com/findlunch/ordercore/pkg/logger"
)

// DraftOpen starts an order draft over the restaurant's current cart.
func DraftOpen(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := validators.URLParamInt64(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload openDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pickup, err := payload.pickupTime()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		d, err := svc.OpenDraft(r.Context(), restaurantID, payload.Authenticated, pickup)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDraftID(logg.WithRestaurantID(ctx, restaurantID), d.ID)
			logg.Info(ctx, "order draft opened")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDraftResponse(d))
	}
}

// DraftFetch returns the current state of an open draft.
func DraftFetch(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Draft(chi.URLParam(r, "draftID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(d))
	}
}

// DraftDiscard drops an open draft without submitting it.
func DraftDiscard(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Discard(chi.URLParam(r, "draftID"))
		responses.WriteSuccess(w, map[string]string{"status": "discarded"})
	}
}

// LineIncrease raises a draft line's amount by one.
func LineIncrease(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return lineQuantity(svc, logg, svc.IncreaseQuantity)
}

// LineDecrease lowers a draft line's amount by one, removing it at zero.
func LineDecrease(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return lineQuantity(svc, logg, svc.DecreaseQuantity)
}

// DonationIncrement rounds the draft total up to the next 10-cent boundary.
func DonationIncrement(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return donationStep(svc, logg, svc.IncrementDonation)
}

// DonationDecrement removes one 10-cent step from the donation.
func DonationDecrement(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return donationStep(svc, logg, svc.DecrementDonation)
}

// UsePoints toggles paying the draft with loyalty points.
func UsePoints(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "draftID")

		var payload usePointsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetUsePoints(draftID, payload.Use); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		d, err := svc.Draft(draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(d))
	}
}

// OrderSubmit validates and registers the draft with the backend.
func OrderSubmit(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "draftID")

		if err := svc.Submit(r.Context(), draftID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "submitted"})
	}
}

func lineQuantity(svc *orders.Service, logg *logger.Logger, step func(ctx context.Context, draftID string, itemID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "draftID")
		itemID, err := validators.URLParamInt64(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := step(r.Context(), draftID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		d, err := svc.Draft(draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(d))
	}
}

func donationStep(svc *orders.Service, logg *logger.Logger, step func(ctx context.Context, draftID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "draftID")

		if err := step(r.Context(), draftID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		d, err := svc.Draft(draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(d))
	}
}

type openDraftRequest struct {
	Authenticated bool   `json:"authenticated"`
	PickupTime    string `json:"pickup_time"`
}

func (p openDraftRequest) pickupTime() (time.Time, error) {
	if p.PickupTime == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, p.PickupTime)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "pickup_time must be RFC 3339")
	}
	return at, nil
}

type usePointsRequest struct {
	Use bool `json:"use"`
}

type draftResponse struct {
	ID             string             `json:"id"`
	RestaurantID   int64              `json:"restaurant_id"`
	State          string             `json:"state"`
	PickupTime     time.Time          `json:"pickup_time"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	Donation       decimal.Decimal    `json:"donation"`
	UsedPoints     bool               `json:"used_points"`
	PointsNeeded   int                `json:"points_needed"`
	PointsEligible bool               `json:"points_eligible"`
	Lines          []cartLineResponse `json:"lines"`
}

func newDraftResponse(d *orders.Draft) draftResponse {
	lines := d.Lines()
	resp := draftResponse{
		ID:             d.ID,
		RestaurantID:   d.RestaurantID,
		State:          string(d.State()),
		PickupTime:     d.PickupTime,
		TotalPrice:     d.TotalPrice,
		Donation:       d.Donation,
		UsedPoints:     d.UsedPoints,
		PointsNeeded:   d.PointsNeeded,
		PointsEligible: d.PointsEligible,
		Lines:          make([]cartLineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, cartLineResponse{Item: line.Item, Amount: line.Amount})
	}
	return resp
}
