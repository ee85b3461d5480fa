package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/env"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/logger"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/service"
)

var testAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

type fakeService struct {
	page       *model.PageList[model.ProductResponse]
	lastParams model.ProductParams
	lastCreate model.CreateProductDto
	lastUpdate model.UpdateProductDto
	product    *model.ProductResponse
	err        error
	deleted    int64
}

func (s *fakeService) ListProducts(_ context.Context, params model.ProductParams) (*model.PageList[model.ProductResponse], error) {
	s.lastParams = params
	return s.page, s.err
}

func (s *fakeService) GetProduct(_ context.Context, id int64) (*model.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *fakeService) GetFilters(context.Context) (*model.Filters, error) {
	return &model.Filters{Brands: []string{"Angular", "React"}, Types: []string{"Boards"}}, s.err
}

func (s *fakeService) CreateProduct(_ context.Context, dto model.CreateProductDto) (*model.ProductResponse, error) {
	s.lastCreate = dto
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *fakeService) UpdateProduct(_ context.Context, dto model.UpdateProductDto) (*model.ProductResponse, error) {
	s.lastUpdate = dto
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *fakeService) DeleteProduct(_ context.Context, id int64) error {
	s.deleted = id
	return s.err
}

func newTestRouter(svc service.ProductService) http.Handler {
	return NewRouter(RouterDeps{
		Env:       &env.Env{AddrClient: "http://localhost:3000", MaxUploadBytes: 1 << 20},
		Log:       logger.Discard(),
		Products:  svc,
		Users:     newFakeUsers(),
		TokenAuth: testAuth,
	})
}

func adminBearer(t *testing.T) string {
	t.Helper()
	_, s, err := testAuth.Encode(map[string]interface{}{"sub": "admin", "role": model.RoleAdmin})
	require.NoError(t, err)
	return "Bearer " + s
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) model.Problem {
	t.Helper()
	var p model.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func multipartRequest(t *testing.T, method string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "board.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, "/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", adminBearer(t))
	return req
}

func TestGetAll_WritesPaginationHeader(t *testing.T) {
	svc := &fakeService{page: &model.PageList[model.ProductResponse]{
		Items:    []model.ProductResponse{{ID: 2, Name: "React Board"}},
		MetaData: model.MetaData{CurrentPage: 1, PageSize: 1, TotalCount: 2, TotalPages: 2},
	}}

	rec := do(newTestRouter(svc), httptest.NewRequest(http.MethodGet,
		"/products?searchTerm=board&orderBy=priceDesc&brands=React,Angular&types=Boards&pageNumber=1&pageSize=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ProductParams{
		SearchTerm: "board",
		OrderBy:    "priceDesc",
		Brands:     []string{"React", "Angular"},
		Types:      []string{"Boards"},
		PageNumber: 1,
		PageSize:   1,
	}, svc.lastParams)

	var meta model.MetaData
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("Pagination")), &meta))
	assert.Equal(t, model.MetaData{CurrentPage: 1, PageSize: 1, TotalCount: 2, TotalPages: 2}, meta)

	var items []model.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestGetAll_RejectsNonNumericPage(t *testing.T) {
	rec := do(newTestRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/products?pageNumber=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Contains(t, p.Errors, "pageNumber")
}

func TestGetByID(t *testing.T) {
	svc := &fakeService{product: &model.ProductResponse{ID: 7, Name: "Blue Hat", DisplayPrice: "15.00"}}

	rec := do(newTestRouter(svc), httptest.NewRequest(http.MethodGet, "/products/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Blue Hat", got.Name)
}

func TestGetByID_NotFound(t *testing.T) {
	rec := do(newTestRouter(&fakeService{err: service.ErrNotFound}), httptest.NewRequest(http.MethodGet, "/products/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeProblem(t, rec).Title)
}

func TestGetByID_InvalidID(t *testing.T) {
	rec := do(newTestRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/products/0", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeProblem(t, rec).Errors, "id")
}

func TestGetFilters(t *testing.T) {
	rec := do(newTestRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/products/filters", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var f model.Filters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, []string{"Angular", "React"}, f.Brands)
}

func TestCreate_RequiresAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(newTestRouter(&fakeService{}), req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreate_ReturnsLocation(t *testing.T) {
	svc := &fakeService{product: &model.ProductResponse{ID: 101, Name: "Green Board"}}
	req := multipartRequest(t, http.MethodPost, map[string]string{
		"name":            "Green Board",
		"description":     "A board",
		"price":           "2500",
		"type":            "Boards",
		"brand":           "React",
		"quantityInStock": "10",
	}, []byte("\x89PNG\r\n\x1a\nfake"))

	rec := do(newTestRouter(svc), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/products/101", rec.Header().Get("Location"))
	assert.Equal(t, int64(2500), svc.lastCreate.Price)
	assert.Equal(t, 10, svc.lastCreate.QuantityInStock)
	require.NotNil(t, svc.lastCreate.File)
	assert.Equal(t, "board.png", svc.lastCreate.File.Filename)
}

func TestCreate_UploadFailure(t *testing.T) {
	svc := &fakeService{err: &service.UpstreamError{Op: "upload", Err: errors.New("storage unavailable")}}
	req := multipartRequest(t, http.MethodPost, map[string]string{"name": "x"}, []byte("data"))

	rec := do(newTestRouter(svc), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "storage unavailable", decodeProblem(t, rec).Title)
}

func TestCreate_ValidationFailure(t *testing.T) {
	verr := service.NewValidationError()
	verr.Add("name", "is required")
	req := multipartRequest(t, http.MethodPost, map[string]string{"price": "1"}, nil)

	rec := do(newTestRouter(&fakeService{err: verr}), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, validationTitle, p.Title)
	assert.Equal(t, []string{"is required"}, p.Errors["name"])
}

func TestCreate_NoOp(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, map[string]string{"name": "x"}, nil)

	rec := do(newTestRouter(&fakeService{err: service.ErrNoOp}), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Problem creating new product", decodeProblem(t, rec).Title)
}

func TestCreate_UnknownErrorIsServerError(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, map[string]string{"name": "x"}, nil)

	rec := do(newTestRouter(&fakeService{err: errors.New("connection reset")}), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeProblem(t, rec).Title)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := &fakeService{product: &model.ProductResponse{ID: 3}}
	req := multipartRequest(t, http.MethodPut, map[string]string{"id": "3", "price": "999"}, nil)

	rec := do(newTestRouter(svc), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.lastUpdate.ID)
	require.NotNil(t, svc.lastUpdate.Price)
	assert.Equal(t, int64(999), *svc.lastUpdate.Price)
	assert.Nil(t, svc.lastUpdate.Name)
	assert.Nil(t, svc.lastUpdate.File)
}

func TestDelete(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodDelete, "/products/4", nil)
	req.Header.Set("Authorization", adminBearer(t))

	rec := do(newTestRouter(svc), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, int64(4), svc.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/products/4", nil)
	req.Header.Set("Authorization", adminBearer(t))

	rec := do(newTestRouter(&fakeService{err: service.ErrNotFound}), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(newTestRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeProblem(t, rec).Title)
}

func TestParseForm_RemovesSpilledParts(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "x"))
	fw, err := mw.CreateFormFile("attachment", "extra.bin")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("a"), 4096))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h := NewProductHandler(&fakeService{}, logger.Discard(), 1<<20)
	h.formMemory = 1
	form, cleanup, err := h.parseForm(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Nil(t, form.file)

	spilled := req.MultipartForm.File["attachment"][0]
	f, err := spilled.Open()
	require.NoError(t, err)
	f.Close()

	cleanup()
	_, err = spilled.Open()
	assert.Error(t, err)
}
