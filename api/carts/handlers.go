package carts

import (
	"breadstation_server/handling"
	"breadstation_server/lib"
	"breadstation_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetCart handles GET /cart. Unknown or missing cookies give an empty cart.
func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	gecho.Success(w,
		gecho.WithData(crm.cartService.View(session)),
		gecho.Send(),
	)
}

// AddItem handles POST /cart/items. Prices come from the catalog, the client
// only names the product, options and quantity.
func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.AddItemRequest](r)
	if err != nil {
		handling.RespondError(err, "cart item", crm.logger, w)
		return
	}

	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	line, err := crm.cartService.AddItem(r.Context(), session, req)
	if err != nil {
		handling.RespondError(err, "cart item", crm.logger, w)
		return
	}
	persisted(session, w)

	gecho.Success(w,
		gecho.WithMessage("Item added to cart"),
		gecho.WithData(map[string]any{
			"line": line,
			"cart": crm.cartService.View(session),
		}),
		gecho.Send(),
	)
}

// UpdateItem handles PATCH /cart/items/{id}. A quantity of zero removes the line.
func (crm *CartRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.UpdateItemRequest](r)
	if err != nil {
		handling.RespondError(err, "cart item", crm.logger, w)
		return
	}

	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	if err := crm.cartService.UpdateItem(r.Context(), session, chi.URLParam(r, "id"), req.Quantity); err != nil {
		handling.RespondError(err, "cart item", crm.logger, w)
		return
	}
	persisted(session, w)

	gecho.Success(w,
		gecho.WithData(crm.cartService.View(session)),
		gecho.Send(),
	)
}

func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	if err := crm.cartService.RemoveItem(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		handling.RespondError(err, "cart item", crm.logger, w)
		return
	}
	persisted(session, w)

	gecho.Success(w,
		gecho.WithData(crm.cartService.View(session)),
		gecho.Send(),
	)
}

// SetDelivery handles PUT /cart/delivery
func (crm *CartRoutesManager) SetDelivery(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.DeliveryRequest](r)
	if err != nil {
		handling.RespondError(err, "delivery", crm.logger, w)
		return
	}

	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	resolution, err := crm.cartService.SetDelivery(r.Context(), session, req)
	if err != nil {
		handling.RespondError(err, "delivery", crm.logger, w)
		return
	}
	persisted(session, w)

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"resolution": resolution,
			"cart":       crm.cartService.View(session),
		}),
		gecho.Send(),
	)
}

// ClearCart handles DELETE /cart
func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	if err := crm.cartService.Clear(r.Context(), session); err != nil {
		handling.RespondError(err, "cart", crm.logger, w)
		return
	}
	lib.ClearCookie(lib.CartCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Cart cleared"),
		gecho.Send(),
	)
}

func (crm *CartRoutesManager) GetQuote(w http.ResponseWriter, r *http.Request) {
	session, ok := crm.openSession(w, r)
	if !ok {
		return
	}

	gecho.Success(w,
		gecho.WithData(crm.cartService.View(session).Quote),
		gecho.Send(),
	)
}

// QuoteClientCart handles POST /cart/quote for carts kept in the browser
func (crm *CartRoutesManager) QuoteClientCart(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[services.ClientCart](r)
	if err != nil {
		handling.RespondError(err, "cart", crm.logger, w)
		return
	}

	view, err := crm.cartService.QuoteClientCart(r.Context(), req)
	if err != nil {
		handling.RespondError(err, "cart", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}
