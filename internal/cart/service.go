package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/agroconnect/agroconnect-backend/pkg/db"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages a buyer's cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*AddResult, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	products productLookup
}

// NewService wires the cart service.
func NewService(repo CartRepository, products productLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	cart := cartFromModels(items)
	return &cart, nil
}

// Add puts one unit of the product in the cart: an existing line is bumped by
// one, otherwise a new line with quantity 1 is created.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*AddResult, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	created := false
	bumped, err := s.repo.IncrementQuantity(ctx, userID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	if !bumped {
		insertErr := s.repo.Insert(ctx, snapshot(userID, product))
		switch {
		case insertErr == nil:
			created = true
		case db.IsUniqueViolation(insertErr, ""):
			// a concurrent add created the line first
			if _, err := s.repo.IncrementQuantity(ctx, userID, product.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
			}
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, insertErr, "add to cart")
		}
	}

	item, err := s.repo.FindByProduct(ctx, userID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart item")
	}

	msg := fmt.Sprintf("Increased quantity of %q in cart!", product.Name)
	if created {
		msg = fmt.Sprintf("%q added to cart!", product.Name)
	}
	return &AddResult{Item: itemFromModel(item), Message: msg, Created: created}, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.Validation("quantity", "Quantity must be at least 1")
	}
	ok, err := s.repo.SetQuantity(ctx, userID, itemID, input.Quantity, input.Version)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart item")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart item was changed elsewhere, reload and try again").
			WithDetails(map[string]any{"current_version": item.Version, "quantity": item.Quantity})
	}
	dto := itemFromModel(item)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.DeleteAll(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func snapshot(userID uuid.UUID, p *models.Product) *models.CartItem {
	return &models.CartItem{
		UserID:    userID,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Farmer:    p.Farmer,
		Location:  p.Location,
		Rating:    p.Rating,
		Quantity:  1,
	}
}
