package handler

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"shopease/internal/domain/model"
	repo "shopease/internal/repository"
	"shopease/internal/repository/mocks"
	"shopease/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	*testServer
	products   *mocks.ProductRepository
	store      *mocks.ObjectStore
	activities *mocks.ActivityRepository
}

func newProductFixture() *productFixture {
	s := newTestServer()
	products := new(mocks.ProductRepository)
	store := new(mocks.ObjectStore)
	activities := new(mocks.ActivityRepository)

	h := NewProductHandler(usecase.NewProductUsecase(products, store, usecase.NewActivityRecorder(activities, discardLogger()), discardLogger(), 1<<20))
	h.RegisterRoutes(s.api(), s.guards())
	h.RegisterImageRoutes(s.e)

	return &productFixture{testServer: s, products: products, store: store, activities: activities}
}

func productForm() map[string]string {
	return map[string]string{
		"name":        "Lamp",
		"description": "Desk lamp",
		"price":       "19.99",
		"stock":       "4",
		"category":    "home",
	}
}

func pngImage() formFileField {
	return formFileField{field: "image", name: "lamp.png", body: []byte("\x89PNG")}
}

func lamp(owner int64) model.Product {
	return model.Product{
		ID: 11, Name: "Lamp", Description: "Desk lamp", Price: decimal.RequireFromString("19.99"),
		Stock: 4, Category: model.CategoryHome, Image: "/images/a.png", ImageKey: "images/a.png",
		ShopkeeperID: owner, ApprovalStatus: model.ApprovalApproved,
	}
}

// =====================
// Public catalog
// =====================

func TestListProducts_PassesQuery(t *testing.T) {
	f := newProductFixture()
	f.products.On("List", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Page == 2 && q.Limit == 5 && q.Search == "lamp" && q.Category == model.CategoryHome && q.Sort == repo.SortPriceAsc
	})).Return([]model.Product{lamp(3)}, int64(6), nil)

	rec := f.doJSON(t, http.MethodGet, "/api/products?page=2&limit=5&search=lamp&category=home&sort=price", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[usecase.ProductListOutput](t, rec)
	assert.Equal(t, 2, got.CurrentPage)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, int64(6), got.TotalProducts)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Lamp", got.Products[0].Name)
}

func TestListProducts_BadPage(t *testing.T) {
	f := newProductFixture()

	rec := f.doJSON(t, http.MethodGet, "/api/products?page=two", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid page", messageOf(t, rec))
}

func TestListProducts_ByShopkeeper(t *testing.T) {
	f := newProductFixture()
	f.products.On("List", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.ShopkeeperID != nil && *q.ShopkeeperID == 3
	})).Return([]model.Product{lamp(3)}, int64(1), nil)

	rec := f.doJSON(t, http.MethodGet, "/api/products/shopkeeper/3", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newProductFixture()
	f.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	rec := f.doJSON(t, http.MethodGet, "/api/products/99", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", messageOf(t, rec))
}

// =====================
// Mutations
// =====================

func TestCreateProduct_RequiresSession(t *testing.T) {
	f := newProductFixture()

	rec := f.doMultipart(t, http.MethodPost, "/api/products", nil, productForm(), pngImage())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct_PlainUserForbidden(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, plainUser(3))

	rec := f.doMultipart(t, http.MethodPost, "/api/products", cookie, productForm(), pngImage())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_AdminIsApprovedImmediately(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, adminUser(1))
	f.store.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "images/") && strings.HasSuffix(k, ".png")
	}), mock.Anything, int64(4), mock.Anything).Return(nil)
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ApprovalStatus == model.ApprovalApproved && p.ShopkeeperID == 1 &&
			strings.HasPrefix(p.Image, "/images/") && p.Price.Equal(decimal.RequireFromString("19.99"))
	})).Return(lamp(1), nil)
	f.activities.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := f.doMultipart(t, http.MethodPost, "/api/products", cookie, productForm(), pngImage())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(11), decode[usecase.ProductOutput](t, rec).ID)
}

func TestCreateProduct_MissingImage(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, shopkeeperUser(3))

	rec := f.doMultipart(t, http.MethodPost, "/api/products", cookie, productForm())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please upload an image", messageOf(t, rec))
}

func TestUpdateProduct_NotOwner(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, shopkeeperUser(3))
	f.products.On("FindByID", mock.Anything, int64(11)).Return(lamp(8), nil)

	rec := f.doMultipart(t, http.MethodPut, "/api/products/11", cookie, map[string]string{"stock": "9"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProduct_OwnerChangesStock(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, shopkeeperUser(3))
	f.products.On("FindByID", mock.Anything, int64(11)).Return(lamp(3), nil)
	f.products.On("Update", mock.Anything, int64(11), mock.MatchedBy(func(p repo.ProductPatch) bool {
		return p.Stock != nil && *p.Stock == 9 && p.Price == nil
	})).Return(nil)
	f.activities.On("Create", mock.Anything, mock.MatchedBy(func(a model.Activity) bool {
		return a.Type == model.ActivityProductStockUpdated
	})).Return(nil)

	rec := f.doMultipart(t, http.MethodPut, "/api/products/11", cookie, map[string]string{"stock": "9"})

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f.activities.AssertExpectations(t)
}

func TestDeleteProduct_WarnsWhenImageRemains(t *testing.T) {
	f := newProductFixture()
	cookie := f.signIn(t, adminUser(1))
	f.products.On("FindByID", mock.Anything, int64(11)).Return(lamp(3), nil)
	f.products.On("SoftDelete", mock.Anything, int64(11)).Return(nil)
	f.store.On("Delete", mock.Anything, "images/a.png").Return(assert.AnError)

	rec := f.doJSON(t, http.MethodDelete, "/api/products/11", cookie, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[usecase.MutationOutput](t, rec)
	assert.Equal(t, "Product removed", got.Message)
	assert.Len(t, got.Warnings, 1)
}

// =====================
// Images
// =====================

func TestImage_Streams(t *testing.T) {
	f := newProductFixture()
	f.store.On("Get", mock.Anything, "images/a.png").Return(io.NopCloser(strings.NewReader("\x89PNG")), nil)

	rec := f.doJSON(t, http.MethodGet, "/images/a.png", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rec.Body.String())
}

func TestImage_Missing(t *testing.T) {
	f := newProductFixture()
	f.store.On("Get", mock.Anything, "images/gone.png").Return(nil, repo.ErrObjectNotFound)

	rec := f.doJSON(t, http.MethodGet, "/images/gone.png", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
