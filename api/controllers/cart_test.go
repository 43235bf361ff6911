package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/api/middleware"
	"github.com/agroconnect/agroconnect-backend/internal/cart"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
)

type fakeCart struct {
	buyer     uuid.UUID
	itemID    uuid.UUID
	update    cart.UpdateItemInput
	addResult *cart.AddResult
	updateErr error
	cleared   bool
}

func (f *fakeCart) Get(_ context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	f.buyer = userID
	return &cart.CartDTO{Items: []cart.ItemDTO{{Name: "Basmati Rice", Quantity: 2}}, ItemCount: 1, QuantityTotal: 2}, nil
}

func (f *fakeCart) Add(_ context.Context, userID uuid.UUID, _ cart.AddItemInput) (*cart.AddResult, error) {
	f.buyer = userID
	return f.addResult, nil
}

func (f *fakeCart) UpdateQuantity(_ context.Context, userID, itemID uuid.UUID, input cart.UpdateItemInput) (*cart.ItemDTO, error) {
	f.buyer, f.itemID, f.update = userID, itemID, input
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &cart.ItemDTO{ID: itemID, Quantity: input.Quantity, Version: input.Version + 1}, nil
}

func (f *fakeCart) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	f.buyer, f.itemID = userID, itemID
	return nil
}

func (f *fakeCart) Clear(_ context.Context, userID uuid.UUID) error {
	f.buyer, f.cleared = userID, true
	return nil
}

func cartRouter(svc cart.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", CartGet(svc, nil))
	r.Delete("/cart", CartClear(svc, nil))
	r.Post("/cart/items", CartAddItem(svc, nil))
	r.Patch("/cart/items/{itemId}", CartUpdateItem(svc, nil))
	r.Delete("/cart/items/{itemId}", CartRemoveItem(svc, nil))
	return r
}

func asBuyer(req *http.Request, buyer uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		UserID:   buyer,
		Email:    "asha@farm.in",
		FullName: "Asha Devi",
		UserType: enums.UserTypeBuyer,
	}))
}

func TestCartAddItemStatusFollowsCreated(t *testing.T) {
	for name, tc := range map[string]struct {
		created bool
		status  int
	}{
		"new line":    {created: true, status: http.StatusCreated},
		"bumped line": {created: false, status: http.StatusOK},
	} {
		t.Run(name, func(t *testing.T) {
			buyer := uuid.New()
			svc := &fakeCart{addResult: &cart.AddResult{
				Item:    cart.ItemDTO{Name: "Fresh Tomatoes", Quantity: 1},
				Message: "Fresh Tomatoes added to cart!",
				Created: tc.created,
			}}
			body := `{"product_id":"` + uuid.NewString() + `"}`
			req := asBuyer(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)), buyer)
			rec := httptest.NewRecorder()
			cartRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, buyer, svc.buyer)
			var envelope struct {
				Message string       `json:"message"`
				Data    cart.ItemDTO `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, "Fresh Tomatoes added to cart!", envelope.Message)
			assert.Equal(t, "Fresh Tomatoes", envelope.Data.Name)
		})
	}
}

func TestCartUpdateItemPassesVersion(t *testing.T) {
	svc := &fakeCart{}
	itemID := uuid.New()
	req := asBuyer(httptest.NewRequest(http.MethodPatch, "/cart/items/"+itemID.String(), strings.NewReader(`{"quantity":3,"version":2}`)), uuid.New())
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, itemID, svc.itemID)
	assert.Equal(t, cart.UpdateItemInput{Quantity: 3, Version: 2}, svc.update)
}

func TestCartUpdateItemStaleVersionIsConflict(t *testing.T) {
	svc := &fakeCart{updateErr: pkgerrors.New(pkgerrors.CodeStateConflict, "cart item was changed elsewhere, reload and try again").
		WithDetails(map[string]any{"current_version": 4})}
	req := asBuyer(httptest.NewRequest(http.MethodPatch, "/cart/items/"+uuid.NewString(), strings.NewReader(`{"quantity":3,"version":2}`)), uuid.New())
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_version":4`)
}

func TestCartUpdateItemRejectsBadInput(t *testing.T) {
	for name, tc := range map[string]struct{ path, body string }{
		"bad item id":   {"/cart/items/not-a-uuid", `{"quantity":1,"version":1}`},
		"zero quantity": {"/cart/items/" + uuid.NewString(), `{"quantity":0,"version":1}`},
		"no version":    {"/cart/items/" + uuid.NewString(), `{"quantity":2}`},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &fakeCart{}
			req := asBuyer(httptest.NewRequest(http.MethodPatch, tc.path, strings.NewReader(tc.body)), uuid.New())
			rec := httptest.NewRecorder()
			cartRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, uuid.Nil, svc.itemID, "service must not be reached")
		})
	}
}

func TestCartRemoveAndClearReturnNoContent(t *testing.T) {
	buyer := uuid.New()
	svc := &fakeCart{}
	itemID := uuid.New()

	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, asBuyer(httptest.NewRequest(http.MethodDelete, "/cart/items/"+itemID.String(), nil), buyer))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, itemID, svc.itemID)

	rec = httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, asBuyer(httptest.NewRequest(http.MethodDelete, "/cart", nil), buyer))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.cleared)
}

func TestCartRequiresPrincipal(t *testing.T) {
	rec := httptest.NewRecorder()
	cartRouter(&fakeCart{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartNilServiceIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	CartGet(nil, nil).ServeHTTP(rec, asBuyer(httptest.NewRequest(http.MethodGet, "/cart", nil), uuid.New()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
