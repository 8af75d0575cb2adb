package delivery

import (
	"breadstation_server/cart"
	"breadstation_server/handling"
	"breadstation_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type resolveRequest struct {
	Address string `json:"address" validate:"required,max=300"`
}

// ResolveAddress handles POST /delivery/resolve
func (drm *DeliveryRoutesManager) ResolveAddress(w http.ResponseWriter, r *http.Request) {
	req, err := lib.ExtractAndValidateBody[resolveRequest](r)
	if err != nil {
		handling.RespondError(err, "address", drm.logger, w)
		return
	}

	res, err := drm.deliveryService.Resolve(r.Context(), req.Address)
	if err != nil {
		handling.RespondError(err, "address", drm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(res),
		gecho.Send(),
	)
}

type zoneInfo struct {
	Zone  cart.Zone `json:"zone"`
	Label string    `json:"label"`
	Fee   string    `json:"fee"`
}

// FetchSlots handles GET /delivery/slots with what the checkout form needs
func (drm *DeliveryRoutesManager) FetchSlots(w http.ResponseWriter, r *http.Request) {
	zones := make([]zoneInfo, 0, 3)
	for _, z := range []cart.Zone{cart.ZonePickup, cart.ZoneAkko, cart.ZoneOutsideAkko} {
		zones = append(zones, zoneInfo{Zone: z, Label: z.Label(), Fee: drm.rules.DeliveryFee(z).String()})
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"time_slots":        cart.TimeSlots,
			"min_delivery_date": drm.rules.MinDeliveryDate(drm.now()).Format(cart.DateLayout),
			"zones":             zones,
			"local_radius_km":   drm.rules.LocalRadiusKm,
			"service_radius_km": drm.rules.ServiceRadiusKm,
		}),
		gecho.Send(),
	)
}
