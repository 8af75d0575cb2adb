package admin

import (
	"breadstation_server/handling"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := ar.bundleService.GetAllBundles(r.Context())
	if err != nil {
		handling.RespondError(err, "bundles", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bundles),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	bundle, err := ar.bundleService.GetBundleByID(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bundle),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateBundle(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BundleRequest](r)
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	bundle, err := ar.bundleService.CreateBundle(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bundle),
		gecho.WithMessage("Bundle created successfully"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.BundleRequest](r)
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	bundle, err := ar.bundleService.UpdateBundle(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bundle),
		gecho.WithMessage("Bundle updated successfully"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	if err := ar.bundleService.DeleteBundle(r.Context(), id); err != nil {
		handling.RespondError(err, "bundle", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Bundle deleted successfully"),
		gecho.Send(),
	)
}
