package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/checkout"
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/coronelbarros/storefront/pkg/format"
	"github.com/coronelbarros/storefront/pkg/logger"
)

type orderMessageResponse struct {
	Text              string          `json:"text"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
	ShippingFormatted string          `json:"shipping_formatted"`
	TotalFormatted    string          `json:"total_formatted"`
	Link              string          `json:"link"`
	WebLink           string          `json:"web_link"`
}

type checkoutResponse struct {
	Message orderMessageResponse `json:"message"`
	Status  enums.HandoffStatus  `json:"status"`
	State   enums.CheckoutState  `json:"state"`
}

func newOrderMessageResponse(msg checkout.ComposedOrderMessage) orderMessageResponse {
	return orderMessageResponse{
		Text:              msg.Text,
		Subtotal:          msg.Subtotal,
		Shipping:          msg.Shipping,
		Total:             msg.Total,
		SubtotalFormatted: format.BRL(msg.Subtotal),
		ShippingFormatted: format.BRL(msg.Shipping),
		TotalFormatted:    format.BRL(msg.Total),
		Link:              msg.Link,
		WebLink:           msg.WebLink,
	}
}

// decodeOrderForm normalises before validating so a blank state falls back
// to the default and padded input is accepted.
func decodeOrderForm(w http.ResponseWriter, r *http.Request) (checkout.BuyerOrderForm, error) {
	var form checkout.BuyerOrderForm
	if err := validators.DecodeJSON(w, r, &form); err != nil {
		return form, err
	}
	form = form.Normalize()
	if err := validators.ValidateStruct(&form); err != nil {
		return form, err
	}
	return form, nil
}

// CheckoutPreview composes the order message for the summary panel.
func CheckoutPreview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		form, err := decodeOrderForm(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.Preview(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderMessageResponse(msg))
	}
}

// CheckoutSubmit composes the order and hands it to the messaging app. The
// cart is cleared only once the hand-off was attempted.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		form, err := decodeOrderForm(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Submit(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Message: newOrderMessageResponse(result.Message),
			Status:  result.Status,
			State:   result.State,
		})
	}
}
