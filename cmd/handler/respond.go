package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/service"
)

const validationTitle = "One or more validation errors occurred."

func problem(w http.ResponseWriter, r *http.Request, p model.Problem) {
	render.Status(r, p.Status)
	render.JSON(w, r, p)
}

func titled(w http.ResponseWriter, r *http.Request, status int, title string) {
	problem(w, r, model.Problem{Title: title, Status: status})
}

// writeError maps service errors onto problem responses. noOpTitle is used
// when the store accepted the write but changed nothing.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, noOpTitle string) {
	var (
		verr  *service.ValidationError
		upErr *service.UpstreamError
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		titled(w, r, http.StatusNotFound, "Not found")
	case errors.As(err, &verr):
		problem(w, r, model.Problem{Title: validationTitle, Status: http.StatusBadRequest, Errors: verr.Fields})
	case errors.As(err, &upErr):
		titled(w, r, http.StatusBadRequest, upErr.Err.Error())
	case errors.Is(err, service.ErrNoOp):
		titled(w, r, http.StatusBadRequest, noOpTitle)
	default:
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		titled(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
