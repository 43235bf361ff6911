package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/agroconnect/agroconnect-backend/internal/auth"
	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
)

type stubAuthService struct {
	resp    *auth.LoginResponse
	err     error
	lastReq auth.LoginRequest
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

type stubRegisterService struct {
	user  *users.UserDTO
	err   error
	calls int
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.calls++
	return s.user, s.err
}

func sellerDTO() *users.UserDTO {
	return &users.UserDTO{
		ID:       uuid.New(),
		FullName: "Ravi Kumar",
		Email:    "ravi@farm.in",
		Phone:    "9876543210",
		Address:  "Plot 4, Nashik",
		UserType: enums.UserTypeSeller,
	}
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	user := sellerDTO()
	svc := &stubAuthService{resp: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         user,
		Dashboard:    "seller-dashboard",
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"ravi@farm.in","password":"secret1","user_type":"seller"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get(TokenHeader); got != "access-token" {
		t.Fatalf("expected token header access-token got %q", got)
	}
	if svc.lastReq.UserType != enums.UserTypeSeller {
		t.Fatalf("expected user type forwarded, got %q", svc.lastReq.UserType)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Dashboard != "seller-dashboard" {
		t.Fatalf("expected seller dashboard got %q", envelope.Data.Dashboard)
	}
}

func TestAuthLoginMismatchedUserType(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeForbidden, "This account is registered as a SELLER. Please select the correct user type tab.")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"ravi@farm.in","password":"secret1","user_type":"buyer"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if resp.Header().Get(TokenHeader) != "" {
		t.Fatal("no token may be issued on a rejected login")
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "This account is registered as a SELLER. Please select the correct user type tab." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"a@b.in","role":"admin"}`))
	resp := httptest.NewRecorder()
	AuthLogin(&stubAuthService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRegisterSignsIn(t *testing.T) {
	user := sellerDTO()
	reg := &stubRegisterService{user: user}
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "access-token", RefreshToken: "refresh-token", User: user, Dashboard: "seller-dashboard"}}

	body := `{"full_name":"Ravi Kumar","email":"ravi@farm.in","phone":"9876543210","address":"Plot 4, Nashik","password":"secret1","confirm_password":"secret1","agree_terms":true,"user_type":"seller"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	AuthRegister(reg, svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if resp.Header().Get(TokenHeader) != "access-token" {
		t.Fatalf("expected token header on register")
	}
	if svc.lastReq.Email != user.Email || svc.lastReq.Password != "secret1" || svc.lastReq.UserType != enums.UserTypeSeller {
		t.Fatalf("unexpected login request %+v", svc.lastReq)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	reg := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "This email is already registered. Please use a different email or login.")}
	svc := &stubAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(`{"email":"ravi@farm.in"}`))
	resp := httptest.NewRecorder()
	AuthRegister(reg, svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if svc.lastReq.Email != "" {
		t.Fatal("login must not run after a failed registration")
	}
}

func TestAuthRegisterUnavailable(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(`{}`))
	resp := httptest.NewRecorder()
	AuthRegister(nil, nil, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
