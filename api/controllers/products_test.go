package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agroconnect/agroconnect-backend/api/middleware"
	"github.com/agroconnect/agroconnect-backend/internal/products"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
)

type stubProductService struct {
	term      string
	createdBy uuid.UUID
	deletedBy uuid.UUID
	deletedID uuid.UUID
	deleteErr error
}

func (s *stubProductService) List(ctx context.Context, query string) ([]products.ProductDTO, error) {
	s.term = query
	return []products.ProductDTO{}, nil
}

func (s *stubProductService) Get(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (s *stubProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]products.ProductDTO, error) {
	return []products.ProductDTO{{ID: uuid.New(), SellerID: sellerID, Name: "Tomatoes"}}, nil
}

func (s *stubProductService) Create(ctx context.Context, sellerID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	s.createdBy = sellerID
	return &products.ProductDTO{ID: uuid.New(), SellerID: sellerID, Name: input.Name, Price: input.Price}, nil
}

func (s *stubProductService) Delete(ctx context.Context, sellerID, productID uuid.UUID) (*products.ProductDTO, error) {
	s.deletedBy = sellerID
	s.deletedID = productID
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	return &products.ProductDTO{ID: productID, SellerID: sellerID}, nil
}

func sellerRequest(req *http.Request, sellerID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		UserID:   sellerID,
		Email:    "ravi@farm.in",
		FullName: "Ravi Kumar",
		UserType: enums.UserTypeSeller,
	}))
}

func TestProductsListTrimsSearchTerm(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=%20%20rice%20", nil)
	resp := httptest.NewRecorder()
	ProductsList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.term != "rice" {
		t.Fatalf("expected trimmed term, got %q", svc.term)
	}
}

func TestSellerCreateProductMessage(t *testing.T) {
	svc := &stubProductService{}
	sellerID := uuid.New()

	req := sellerRequest(httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", bytes.NewBufferString(`{"name":"Organic Tomatoes","price":"₹40/kg","image":"🍅"}`)), sellerID)
	resp := httptest.NewRecorder()
	SellerCreateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createdBy != sellerID {
		t.Fatalf("expected product owned by %s", sellerID)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(envelope.Message, "Organic Tomatoes") {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestSellerCreateProductRejectsRatingOutOfRange(t *testing.T) {
	req := sellerRequest(httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", bytes.NewBufferString(`{"name":"Rice","price":"₹60/kg","rating":7}`)), uuid.New())
	resp := httptest.NewRecorder()
	SellerCreateProduct(&stubProductService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSellerDeleteProduct(t *testing.T) {
	svc := &stubProductService{}
	sellerID := uuid.New()
	productID := uuid.New()

	r := chi.NewRouter()
	r.Delete("/seller/products/{productId}", SellerDeleteProduct(svc, nil))

	req := sellerRequest(httptest.NewRequest(http.MethodDelete, "/seller/products/"+productID.String(), nil), sellerID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.deletedBy != sellerID || svc.deletedID != productID {
		t.Fatalf("unexpected delete inputs %s %s", svc.deletedBy, svc.deletedID)
	}
}

func TestSellerDeleteProductInvalidID(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/seller/products/{productId}", SellerDeleteProduct(&stubProductService{}, nil))

	req := sellerRequest(httptest.NewRequest(http.MethodDelete, "/seller/products/not-a-uuid", nil), uuid.New())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSellerDeleteProductOwnedByOther(t *testing.T) {
	svc := &stubProductService{deleteErr: pkgerrors.New(pkgerrors.CodeForbidden, "You can only delete your own products")}
	r := chi.NewRouter()
	r.Delete("/seller/products/{productId}", SellerDeleteProduct(svc, nil))

	req := sellerRequest(httptest.NewRequest(http.MethodDelete, "/seller/products/"+uuid.NewString(), nil), uuid.New())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
