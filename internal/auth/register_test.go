package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db/dbtest"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/security"
)

var fastPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FullName:        "Asha Patil",
		Email:           "Asha@Farm.in",
		Phone:           "98765-43210",
		Address:         "Plot 7, Market Yard, Nashik",
		Password:        "harvest",
		ConfirmPassword: "harvest",
		AgreeTerms:      true,
		UserType:        enums.UserTypeSeller,
	}
}

func TestRegisterCreatesUserWithHashedPassword(t *testing.T) {
	client := dbtest.Client(t)
	svc, err := NewRegisterService(RegisterServiceParams{DB: client, PasswordConfig: fastPasswordConfig})
	require.NoError(t, err)

	created, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.Equal(t, "asha@farm.in", created.Email)
	require.Equal(t, enums.UserTypeSeller, created.UserType)

	stored, err := users.NewRepository(client.DB()).FindByEmail(context.Background(), "asha@farm.in")
	require.NoError(t, err)
	require.NotEqual(t, "harvest", stored.PasswordHash)
	ok, err := security.VerifyPassword("harvest", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	client := dbtest.Client(t)
	svc, err := NewRegisterService(RegisterServiceParams{DB: client, PasswordConfig: fastPasswordConfig})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	again := validRegisterRequest()
	again.Email = "ASHA@farm.in"
	_, err = svc.Register(context.Background(), again)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
	require.Equal(t, emailTakenMessage, typed.Message())
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	svc, err := NewRegisterService(RegisterServiceParams{DB: dbtest.Client(t), PasswordConfig: fastPasswordConfig})
	require.NoError(t, err)

	req := validRegisterRequest()
	req.UserType = ""
	created, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, enums.UserTypeBuyer, created.UserType)
}

func TestValidateRegistrationMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		field   string
		message string
	}{
		{"full name", func(r *RegisterRequest) { r.FullName = "   " }, "full_name", "Full name is required"},
		{"email missing", func(r *RegisterRequest) { r.Email = "" }, "email", "Email is required"},
		{"email invalid", func(r *RegisterRequest) { r.Email = "asha-at-farm" }, "email", "Email is invalid"},
		{"phone missing", func(r *RegisterRequest) { r.Phone = " " }, "phone", "Phone number is required"},
		{"phone short", func(r *RegisterRequest) { r.Phone = "12345" }, "phone", "Phone number must be 10 digits"},
		{"address", func(r *RegisterRequest) { r.Address = "" }, "address", "Address is required"},
		{"password missing", func(r *RegisterRequest) { r.Password = ""; r.ConfirmPassword = "" }, "password", "Password is required"},
		{"password short", func(r *RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" }, "password", "Password must be at least 6 characters"},
		{"confirm mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "harvest2" }, "confirm_password", "Passwords do not match"},
		{"terms", func(r *RegisterRequest) { r.AgreeTerms = false }, "agree_terms", "You must agree to terms and conditions"},
		{"user type", func(r *RegisterRequest) { r.UserType = "admin" }, "user_type", invalidTypeMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)
			_, err := validateRegistration(&req)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
			require.Equal(t, tt.message, typed.Message())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			require.Equal(t, tt.message, details[tt.field])
		})
	}
}

func TestValidateRegistrationReportsFirstFieldFirst(t *testing.T) {
	req := RegisterRequest{}
	_, err := validateRegistration(&req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, "Full name is required", typed.Message())
	details := typed.Details().(map[string]string)
	require.Len(t, details, 6)
	require.Contains(t, details, "agree_terms")
}
