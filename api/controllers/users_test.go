package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
)

type stubUserList []models.User

func (s stubUserList) List(context.Context) ([]models.User, error) {
	return s, nil
}

func TestUsersListHidesContactDetails(t *testing.T) {
	list := stubUserList{{
		ID:           uuid.New(),
		FullName:     "Ravi Kumar",
		Email:        "ravi@farm.in",
		Phone:        "9876543210",
		Address:      "12 Mandi Road, Nashik",
		PasswordHash: "hash",
		UserType:     enums.UserTypeSeller,
	}}

	rec := httptest.NewRecorder()
	UsersList(list, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ravi Kumar")
	for _, secret := range []string{"ravi@farm.in", "9876543210", "Mandi Road", "hash"} {
		assert.NotContains(t, body, secret)
	}
}
