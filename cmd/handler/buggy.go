package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
)

// BuggyHandler serves fixed error responses used to exercise the client's
// and the server's error handling.
type BuggyHandler struct{}

func NewBuggyHandler() *BuggyHandler {
	return &BuggyHandler{}
}

func (h *BuggyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/buggy", func(r chi.Router) {
		r.Get("/not-found", h.notFound)
		r.Get("/bad-request", h.badRequest)
		r.Get("/unauthorized", h.unauthorized)
		r.Get("/validation-error", h.validationError)
		r.Get("/server-error", h.serverError)
	})
}

func (h *BuggyHandler) notFound(w http.ResponseWriter, r *http.Request) {
	titled(w, r, http.StatusNotFound, "Not found")
}

func (h *BuggyHandler) badRequest(w http.ResponseWriter, r *http.Request) {
	titled(w, r, http.StatusBadRequest, "This is a bad request")
}

func (h *BuggyHandler) unauthorized(w http.ResponseWriter, r *http.Request) {
	titled(w, r, http.StatusUnauthorized, "Unauthorized")
}

func (h *BuggyHandler) validationError(w http.ResponseWriter, r *http.Request) {
	problem(w, r, model.Problem{
		Title:  validationTitle,
		Status: http.StatusBadRequest,
		Errors: map[string][]string{
			"problem1": {"This is a problem 1"},
			"problem2": {"This is a problem 2"},
		},
	})
}

// serverError panics on purpose; RecoverPanic turns it into a 500.
func (h *BuggyHandler) serverError(http.ResponseWriter, *http.Request) {
	panic("This is a server error")
}
