package admin

import (
	"breadstation_server/handling"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := ar.categoryService.ListCategories(r.Context())
	if err != nil {
		handling.RespondError(err, "categories", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(categories),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	category, err := ar.categoryService.CreateCategory(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(category),
		gecho.WithMessage("Category created successfully"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	category, err := ar.categoryService.UpdateCategory(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(category),
		gecho.WithMessage("Category updated successfully"),
		gecho.Send(),
	)
}

// DeleteCategory handles DELETE /admin/categories/{id}. Categories that still
// own products are refused with a 400.
func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	if err := ar.categoryService.DeleteCategory(r.Context(), id); err != nil {
		handling.RespondError(err, "category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category deleted successfully"),
		gecho.Send(),
	)
}
