package carts

import (
	"breadstation_server/cart"
	"breadstation_server/handling"
	"breadstation_server/lib"
	"net/http"
)

// openSession loads the cart named by the cookie. A failed load has already
// been answered when it returns false.
func (crm *CartRoutesManager) openSession(w http.ResponseWriter, r *http.Request) (*cart.Session, bool) {
	id, _ := lib.GetCookieValue(lib.CartCookieName, r)

	session, err := crm.cartService.Open(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "cart", crm.logger, w)
		return nil, false
	}
	return session, true
}

// persisted refreshes the cookie after the session was written to the store
func persisted(session *cart.Session, w http.ResponseWriter) {
	lib.SetCartCookie(session.ID, w)
}
