package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/domain"
)

type fakeInventoryStore struct {
	items []domain.InventoryItem
}

func (f *fakeInventoryStore) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return f.items, nil
}

func (f *fakeInventoryStore) Create(ctx context.Context, it domain.InventoryItem) (*domain.InventoryItem, error) {
	it.ID = "1700000000001"
	f.items = append(f.items, it)
	return &it, nil
}

func (f *fakeInventoryStore) Update(ctx context.Context, id string, p domain.InventoryPatch) (*domain.InventoryItem, error) {
	it := domain.InventoryItem{ID: id, Name: "Silk Saree", Price: decimal.NewFromInt(2499)}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	return &it, nil
}

func (f *fakeInventoryStore) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeInvalidator struct {
	keys []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, keys ...string) {
	f.keys = append(f.keys, keys...)
}

func inventoryTestRouter(cacheSpy *fakeInvalidator) http.Handler {
	h := InventoryHandler{
		Repo:               &fakeInventoryStore{},
		Cache:              cacheSpy,
		LowStockThreshold:  10,
		HighStockThreshold: 50,
	}
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestInventoryCreateInvalidatesDashboard(t *testing.T) {
	spy := &fakeInvalidator{}
	router := inventoryTestRouter(spy)

	req := httptest.NewRequest(http.MethodPost, "/inventory",
		strings.NewReader(`{"name":"Silk Saree","price":2499,"quantity":8}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{dashboardCacheKey}, spy.keys)
}

func TestInventoryUpdateInvalidatesDashboard(t *testing.T) {
	spy := &fakeInvalidator{}
	router := inventoryTestRouter(spy)

	req := httptest.NewRequest(http.MethodPut, "/inventory/1700000000001",
		strings.NewReader(`{"quantity":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{dashboardCacheKey}, spy.keys)
}

func TestInventoryDeleteInvalidatesDashboard(t *testing.T) {
	spy := &fakeInvalidator{}
	router := inventoryTestRouter(spy)

	req := httptest.NewRequest(http.MethodDelete, "/inventory/1700000000001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{dashboardCacheKey}, spy.keys)
}

func TestInventoryListDoesNotInvalidate(t *testing.T) {
	spy := &fakeInvalidator{}
	router := inventoryTestRouter(spy)

	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, spy.keys)
}
