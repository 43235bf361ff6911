package controllers

import (
	"net/http"

	"github.com/agroconnect/agroconnect-backend/api/responses"
	"github.com/agroconnect/agroconnect-backend/api/validators"
	"github.com/agroconnect/agroconnect-backend/internal/auth"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
)

// TokenHeader carries the access token alongside the body so clients can
// store it without parsing JSON.
const TokenHeader = "X-AC-Token"

var errAuthUnavailable = pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")

// AuthLogin exchanges credentials for an access and refresh token pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}

		var creds auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.Login(ctx, creds)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeSession(w, http.StatusOK, "", session)
	}
}

// AuthRegister creates the account and then logs it in with the same
// password, so the response has the login shape with a 201.
func AuthRegister(reg auth.RegisterService, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reg == nil || svc == nil {
			responses.WriteError(ctx, logg, w, errAuthUnavailable)
			return
		}

		var form auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := reg.Register(ctx, form)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.Login(ctx, auth.LoginRequest{
			Email:    created.Email,
			Password: form.Password,
			UserType: created.UserType,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeSession(w, http.StatusCreated, "Registration successful!", session)
	}
}

func writeSession(w http.ResponseWriter, status int, message string, session *auth.LoginResponse) {
	w.Header().Set(TokenHeader, session.AccessToken)
	if message == "" {
		responses.WriteSuccessStatus(w, status, session)
		return
	}
	responses.WriteMessage(w, status, message, session)
}
