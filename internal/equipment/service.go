package equipment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages the shared rental pool.
type Service interface {
	List(ctx context.Context) (*ListResult, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateEquipmentInput) (*EquipmentDTO, error)
	SetAvailability(ctx context.Context, sellerID, equipmentID uuid.UUID, input AvailabilityInput) (*EquipmentDTO, error)
	Contact(ctx context.Context, equipmentID uuid.UUID) (*ContactDTO, error)
	Delete(ctx context.Context, sellerID, equipmentID uuid.UUID) (*EquipmentDTO, error)
}

type equipmentRepository interface {
	Create(ctx context.Context, item *models.Equipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, version int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type ownerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo  equipmentRepository
	users ownerLookup
}

func NewService(repo equipmentRepository, owners ownerLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("equipment repository required")
	}
	if owners == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	return &service{repo: repo, users: owners}, nil
}

func (s *service) List(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}
	result := newListResult(rows)
	return &result, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateEquipmentInput) (*EquipmentDTO, error) {
	name := strings.TrimSpace(input.Name)
	price := strings.TrimSpace(input.Price)
	specs := strings.TrimSpace(input.Specifications)
	switch {
	case name == "":
		return nil, pkgerrors.Validation("name", "Please enter equipment name")
	case price == "":
		return nil, pkgerrors.Validation("price", "Please enter rental price")
	case specs == "":
		return nil, pkgerrors.Validation("specifications", "Please enter equipment specifications")
	}

	typ := enums.EquipmentTypeTractor
	if raw := strings.TrimSpace(input.Type); raw != "" {
		parsed, err := enums.ParseEquipmentType(raw)
		if err != nil {
			return nil, pkgerrors.Validation("type", "Please choose a listed equipment type")
		}
		typ = parsed
	}
	cond := enums.EquipmentConditionExcellent
	if raw := strings.TrimSpace(input.Condition); raw != "" {
		parsed, err := enums.ParseEquipmentCondition(raw)
		if err != nil {
			return nil, pkgerrors.Validation("condition", "Condition must be Excellent, Good or Fair")
		}
		cond = parsed
	}
	available := true
	if input.Available != nil {
		available = *input.Available
	}
	rating := defaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please login to access this page")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}
	phone := strings.TrimSpace(owner.Phone)
	if phone == "" {
		phone = phoneNotProvided
	}

	id := owner.ID
	row := &models.Equipment{
		OwnerID:        &id,
		Name:           name,
		Type:           typ,
		Price:          money.EnsureRupeePrefix(price),
		PriceAmount:    money.ParseAmount(price),
		Image:          firstNonEmpty(input.Image, defaultImage),
		Owner:          owner.FullName,
		OwnerEmail:     owner.Email,
		OwnerPhone:     phone,
		Rating:         rating,
		Location:       users.Location(owner.Address),
		Specifications: specs,
		Condition:      cond,
		Available:      available,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create equipment")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) SetAvailability(ctx context.Context, sellerID, equipmentID uuid.UUID, input AvailabilityInput) (*EquipmentDTO, error) {
	if input.Available == nil {
		return nil, pkgerrors.Validation("available", "available is required")
	}
	item, err := s.load(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !canManage(item, sellerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can change this listing")
	}

	ok, err := s.repo.SetAvailability(ctx, equipmentID, *input.Available, input.Version)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}
	fresh, err := s.load(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing was changed elsewhere, reload and try again").
			WithDetails(map[string]any{"current_version": fresh.Version, "available": fresh.Available})
	}
	dto := FromModel(fresh)
	return &dto, nil
}

func (s *service) Contact(ctx context.Context, equipmentID uuid.UUID) (*ContactDTO, error) {
	item, err := s.load(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	contact := ContactFor(item)
	return &contact, nil
}

// Delete removes exactly the named listing. Owners may delete their own and
// any seller may delete a bundled listing.
func (s *service) Delete(ctx context.Context, sellerID, equipmentID uuid.UUID) (*EquipmentDTO, error) {
	item, err := s.load(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if !canManage(item, sellerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete this listing")
	}
	deleted, err := s.repo.Delete(ctx, equipmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete equipment")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
	}
	dto := FromModel(item)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return item, nil
}

func canManage(item *models.Equipment, sellerID uuid.UUID) bool {
	if item.OwnerID == nil {
		return item.IsFromJSON
	}
	return *item.OwnerID == sellerID
}
