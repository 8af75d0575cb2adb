package admin

import (
	"breadstation_server/handling"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

const importFormField = "file"

// ImportCatalog handles POST /admin/import with a multipart CSV upload
func (ar *AdminRoutesManager) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ar.maxUploadBytes)

	if err := r.ParseMultipartForm(ar.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			gecho.BadRequest(w, gecho.WithMessage("File too large"), gecho.Send())
			return
		}
		gecho.BadRequest(w, gecho.WithMessage("No file provided"), gecho.Send())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(importFormField)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("No file provided"), gecho.Send())
		return
	}
	defer file.Close()

	ar.logger.Info("Catalog import started",
		gecho.Field("filename", header.Filename),
		gecho.Field("size", header.Size),
	)

	result, err := ar.importService.Import(r.Context(), file)
	if err != nil {
		handling.RespondError(err, "import", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage(result.Message),
		gecho.WithData(result),
		gecho.Send(),
	)
}
