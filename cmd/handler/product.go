package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/middleware"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/service"
)

const multipartMemory = 8 << 20

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	svc        service.ProductService
	log        *slog.Logger
	maxBody    int64
	formMemory int64
}

// NewProductHandler builds the handler; maxUpload bounds form bodies.
func NewProductHandler(s service.ProductService, log *slog.Logger, maxUpload int64) *ProductHandler {
	return &ProductHandler{svc: s, log: log, maxBody: maxUpload + 1<<20, formMemory: multipartMemory}
}

// RegisterRoutes mounts the catalog routes. Writes require the Admin role.
func (h *ProductHandler) RegisterRoutes(r chi.Router, tokenAuth *jwtauth.JWTAuth) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.getAll)            // GET /products?searchTerm=&orderBy=&brands=&types=&pageNumber=&pageSize=
		r.Get("/filters", h.getFilters) // GET /products/filters
		r.Get("/{id}", h.getByID)       // GET /products/{id}

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Post("/", h.create)
			r.Put("/", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

// --- GET /products ---
func (h *ProductHandler) getAll(w http.ResponseWriter, r *http.Request) {
	params, err := parseProductParams(r.URL.Query())
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	page, err := h.svc.ListProducts(r.Context(), params)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	meta, err := json.Marshal(page.MetaData)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}
	w.Header().Set(middleware.PaginationHeader, string(meta))
	render.JSON(w, r, page.Items)
}

func (h *ProductHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}
	render.JSON(w, r, product)
}

func (h *ProductHandler) getFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.svc.GetFilters(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}
	render.JSON(w, r, filters)
}

// --- POST /products (multipart) ---
func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	form, closeFile, err := h.parseForm(w, r)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}
	defer closeFile()

	dto, err := createDtoFromForm(form)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), dto)
	if err != nil {
		writeError(w, r, h.log, err, "Problem creating new product")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/products/%d", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, product)
}

// --- PUT /products (multipart) ---
func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	form, closeFile, err := h.parseForm(w, r)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}
	defer closeFile()

	dto, err := updateDtoFromForm(form)
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), dto)
	if err != nil {
		writeError(w, r, h.log, err, "Problem updating product")
		return
	}
	render.JSON(w, r, product)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, h.log, err, "Problem deleting product")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		verr := service.NewValidationError()
		verr.Add("id", "must be a positive integer")
		writeError(w, r, h.log, verr, "")
		return 0, false
	}
	return id, true
}

// productForm is a parsed product form plus its optional image.
type productForm struct {
	values url.Values
	file   *model.ImageUpload
}

func (h *ProductHandler) parseForm(w http.ResponseWriter, r *http.Request) (*productForm, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	err := r.ParseMultipartForm(h.formMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		verr := service.NewValidationError()
		verr.Add("form", "could not be read: "+err.Error())
		return nil, noop, verr
	}

	cleanup := noop
	if r.MultipartForm != nil {
		cleanup = func() { r.MultipartForm.RemoveAll() }
	}

	pf := &productForm{values: r.Form}
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return pf, cleanup, nil
	case err != nil:
		cleanup()
		verr := service.NewValidationError()
		verr.Add("file", "could not be read")
		return nil, noop, verr
	}

	pf.file = uploadFromHeader(file, header)
	closer := func() {
		file.Close()
		cleanup()
	}
	return pf, closer, nil
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) *model.ImageUpload {
	return &model.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func parseProductParams(q url.Values) (model.ProductParams, error) {
	verr := service.NewValidationError()
	params := model.ProductParams{
		SearchTerm: strings.TrimSpace(q.Get("searchTerm")),
		OrderBy:    q.Get("orderBy"),
		Brands:     model.SplitList(q.Get("brands")),
		Types:      model.SplitList(q.Get("types")),
		PageNumber: optionalInt(q, "pageNumber", verr),
		PageSize:   optionalInt(q, "pageSize", verr),
	}
	return params, verr.OrNil()
}

func createDtoFromForm(f *productForm) (model.CreateProductDto, error) {
	verr := service.NewValidationError()
	dto := model.CreateProductDto{
		Name:            strings.TrimSpace(f.values.Get("name")),
		Description:     strings.TrimSpace(f.values.Get("description")),
		Price:           int64(optionalInt(f.values, "price", verr)),
		Type:            strings.TrimSpace(f.values.Get("type")),
		Brand:           strings.TrimSpace(f.values.Get("brand")),
		QuantityInStock: optionalInt(f.values, "quantityInStock", verr),
		File:            f.file,
	}
	return dto, verr.OrNil()
}

func updateDtoFromForm(f *productForm) (model.UpdateProductDto, error) {
	verr := service.NewValidationError()
	dto := model.UpdateProductDto{
		ID:              int64(optionalInt(f.values, "id", verr)),
		Name:            presentString(f.values, "name"),
		Description:     presentString(f.values, "description"),
		Type:            presentString(f.values, "type"),
		Brand:           presentString(f.values, "brand"),
		QuantityInStock: presentInt(f.values, "quantityInStock", verr),
		File:            f.file,
	}
	if price := presentInt(f.values, "price", verr); price != nil {
		p := int64(*price)
		dto.Price = &p
	}
	return dto, verr.OrNil()
}

func optionalInt(values url.Values, key string, verr *service.ValidationError) int {
	if n := presentInt(values, key, verr); n != nil {
		return *n
	}
	return 0
}

// presentInt returns nil when key is absent or blank.
func presentInt(values url.Values, key string, verr *service.ValidationError) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(key, "must be an integer")
		return nil
	}
	return &n
}

func presentString(values url.Values, key string) *string {
	if _, ok := values[key]; !ok {
		return nil
	}
	s := strings.TrimSpace(values.Get(key))
	return &s
}
