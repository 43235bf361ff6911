package equipment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/db/dbtest"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
)

type equipmentFixture struct {
	svc   Service
	repo  *Repository
	owner *models.User
	other *models.User
}

func newEquipmentFixture(t *testing.T) equipmentFixture {
	t.Helper()
	conn := dbtest.Open(t)
	userRepo := users.NewRepository(conn)
	ctx := context.Background()

	owner, err := userRepo.Create(ctx, users.CreateUserDTO{
		FullName:     "Harpreet Singh",
		Email:        "harpreet@farm.in",
		Phone:        "",
		Address:      "Village Dhandra, Ludhiana",
		PasswordHash: "hash",
		UserType:     enums.UserTypeSeller,
	})
	require.NoError(t, err)
	other, err := userRepo.Create(ctx, users.CreateUserDTO{
		FullName:     "Anil Chaudhary",
		Email:        "anil@farm.in",
		Phone:        "9350067890",
		Address:      "Hisar",
		PasswordHash: "hash",
		UserType:     enums.UserTypeSeller,
	})
	require.NoError(t, err)

	repo := NewRepository(conn)
	svc, err := NewService(repo, userRepo)
	require.NoError(t, err)
	return equipmentFixture{svc: svc, repo: repo, owner: owner, other: other}
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := newEquipmentFixture(t)

	created, err := f.svc.Create(context.Background(), f.owner.ID, CreateEquipmentInput{
		Name:           " Swaraj 744 ",
		Price:          "1,200/day",
		Specifications: "48 HP, power steering",
	})
	require.NoError(t, err)
	require.Equal(t, "Swaraj 744", created.Name)
	require.Equal(t, enums.EquipmentTypeTractor, created.Type)
	require.Equal(t, enums.EquipmentConditionExcellent, created.Condition)
	require.Equal(t, "₹1,200/day", created.Price)
	require.Equal(t, "1200", created.PriceAmount.String())
	require.Equal(t, "🚜", created.Image)
	require.Equal(t, 4.5, created.Rating)
	require.True(t, created.Available)
	require.Equal(t, "Harpreet Singh", created.Owner)
	require.Equal(t, "Not provided", created.OwnerPhone)
	require.Equal(t, "Ludhiana", created.Location)
	require.False(t, created.IsFromJSON)
}

func TestCreateValidationMessages(t *testing.T) {
	f := newEquipmentFixture(t)
	ctx := context.Background()

	cases := []struct {
		input CreateEquipmentInput
		want  string
	}{
		{CreateEquipmentInput{Price: "500", Specifications: "x"}, "Please enter equipment name"},
		{CreateEquipmentInput{Name: "Pump", Specifications: "x"}, "Please enter rental price"},
		{CreateEquipmentInput{Name: "Pump", Price: "500"}, "Please enter equipment specifications"},
	}
	for _, tc := range cases {
		_, err := f.svc.Create(ctx, f.owner.ID, tc.input)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		require.Equal(t, tc.want, pkgerrors.As(err).Message())
	}

	_, err := f.svc.Create(ctx, f.owner.ID, CreateEquipmentInput{Name: "Pump", Price: "500", Specifications: "x", Type: "Hovercraft"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list.Items)
}

func TestAvailabilityUsesVersion(t *testing.T) {
	f := newEquipmentFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, CreateEquipmentInput{Name: "Thresher", Type: "Thresher", Price: "₹900/day", Specifications: "multi crop"})
	require.NoError(t, err)

	off := false
	updated, err := f.svc.SetAvailability(ctx, f.owner.ID, created.ID, AvailabilityInput{Available: &off, Version: created.Version})
	require.NoError(t, err)
	require.False(t, updated.Available)
	require.Equal(t, created.Version+1, updated.Version)

	on := true
	_, err = f.svc.SetAvailability(ctx, f.owner.ID, created.ID, AvailabilityInput{Available: &on, Version: created.Version})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.SetAvailability(ctx, f.other.ID, created.ID, AvailabilityInput{Available: &on, Version: updated.Version})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{Total: 1, Available: 0, Unavailable: 1}, list.Stats)
}

func TestDeleteRules(t *testing.T) {
	f := newEquipmentFixture(t)
	ctx := context.Background()

	mine, err := f.svc.Create(ctx, f.owner.ID, CreateEquipmentInput{Name: "Sprayer", Type: "Sprayer", Price: "700", Specifications: "400 L"})
	require.NoError(t, err)
	keep, err := f.svc.Create(ctx, f.owner.ID, CreateEquipmentInput{Name: "Trailer", Type: "Trailer", Price: "600", Specifications: "3 t"})
	require.NoError(t, err)

	seeded := &models.Equipment{Name: "Seeded Pump", Type: enums.EquipmentTypeWaterPump, Price: "₹350/day", Image: "💧", Owner: "Meena Devi",
		OwnerEmail: "meena@agroconnect.in", OwnerPhone: "9934056789", Rating: 4.8, Location: "Patna", Specifications: "5 HP",
		Condition: enums.EquipmentConditionGood, Available: true, IsFromJSON: true}
	require.NoError(t, f.repo.Create(ctx, seeded))

	_, err = f.svc.Delete(ctx, f.other.ID, mine.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Delete(ctx, f.other.ID, seeded.ID)
	require.NoError(t, err)

	removed, err := f.svc.Delete(ctx, f.owner.ID, mine.ID)
	require.NoError(t, err)
	require.Equal(t, "Sprayer", removed.Name)

	_, err = f.svc.Delete(ctx, f.owner.ID, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, keep.ID, list.Items[0].ID)
}

func TestContactBuildsLinks(t *testing.T) {
	f := newEquipmentFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, CreateEquipmentInput{Name: "Rotavator", Type: "Rotavator", Price: "1000", Specifications: "42 blades"})
	require.NoError(t, err)

	contact, err := f.svc.Contact(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Harpreet Singh", contact.Owner)
	require.Equal(t, "mailto:harpreet@farm.in?subject=Inquiry%20about%20Rotavator", contact.MailtoURL)
	require.Empty(t, contact.TelURL)
}
