package carts

import (
	"breadstation_server/handling"
	"breadstation_server/lib"
	"breadstation_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// CheckoutSessionCart handles POST /cart/checkout. The cart is kept so the
// customer can come back if the WhatsApp message was never sent.
func (crm *CartRoutesManager) CheckoutSessionCart(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.CheckoutRequest](r)
	if err != nil {
		handling.RespondError(err, "checkout", crm.logger, w)
		return
	}

	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	result, err := crm.checkoutService.Checkout(r.Context(), session.Cart, req.Customer)
	if err != nil {
		handling.RespondError(err, "checkout", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

// CheckoutClientCart handles POST /checkout with the cart in the body
func (crm *CartRoutesManager) CheckoutClientCart(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.ClientCheckoutRequest](r)
	if err != nil {
		handling.RespondError(err, "checkout", crm.logger, w)
		return
	}

	c, err := crm.cartService.BuildClientCart(r.Context(), &req.Cart)
	if err != nil {
		handling.RespondError(err, "checkout", crm.logger, w)
		return
	}

	result, err := crm.checkoutService.Checkout(r.Context(), c, req.Customer)
	if err != nil {
		handling.RespondError(err, "checkout", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}
