package admin

import (
	"breadstation_server/handling"
	"breadstation_server/lib"
	"breadstation_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListProducts handles GET /admin/products with filtering, pagination and sorting
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		handling.RespondError(err, "products", ar.logger, w)
		return
	}

	result, err := ar.productService.GetAllProducts(r.Context(), opts)
	if err != nil {
		handling.RespondError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(result.Products),
			},
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	product, err := ar.productService.GetProductByID(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	product, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.WithMessage("Product created successfully"),
		gecho.Send(),
	)
}

// UpdateProduct handles PUT /admin/products/{id}. Options are replaced wholesale.
func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.WithMessage("Product updated successfully"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), id); err != nil {
		handling.RespondError(err, "product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product deleted successfully"),
		gecho.Send(),
	)
}
