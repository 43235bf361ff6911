package cart

import (
	"context"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Insert(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity, version int) (bool, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

// productLookup reads the catalog entry being added.
type productLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
