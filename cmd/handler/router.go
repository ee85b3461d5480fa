package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/env"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/middleware"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/service"
)

type RouterDeps struct {
	Env       *env.Env
	Log       *slog.Logger
	Products  service.ProductService
	Users     repository.UserRepo
	TokenAuth *jwtauth.JWTAuth
	// ImageDir, when set, is served under /images/.
	ImageDir string
}

// NewRouter wires middleware and every handler onto a chi router.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.RecoverPanic(d.Log))
	r.Use(middleware.CORSmiddleware(d.Env))

	NewProductHandler(d.Products, d.Log, d.Env.MaxUploadBytes).RegisterRoutes(r, d.TokenAuth)
	NewAccountHandler(d.Users, d.TokenAuth, d.Log).RegisterRoutes(r)
	NewBuggyHandler().RegisterRoutes(r)

	if d.ImageDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(d.ImageDir))))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		titled(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		titled(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}
