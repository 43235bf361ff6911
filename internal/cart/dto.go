package cart

import (
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ItemDTO is a cart line with the product snapshot taken when it was added.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Image     string    `json:"image"`
	Farmer    string    `json:"farmer"`
	Location  string    `json:"location"`
	Rating    float64   `json:"rating"`
	Quantity  int       `json:"quantity"`
	Version   int       `json:"version"`
}

// CartDTO is the buyer's whole cart.
type CartDTO struct {
	Items         []ItemDTO `json:"items"`
	ItemCount     int       `json:"item_count"`
	QuantityTotal int       `json:"quantity_total"`
}

// AddResult carries the updated line and the confirmation shown to the buyer.
type AddResult struct {
	Item    ItemDTO `json:"item"`
	Message string  `json:"message"`
	Created bool    `json:"created"`
}

// AddItemInput is the add-to-cart request.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// UpdateItemInput sets a line's quantity. Version must be the value last read.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
	Version  int `json:"version" validate:"required,min=1"`
}

func itemFromModel(m *models.CartItem) ItemDTO {
	return ItemDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Image:     m.Image,
		Farmer:    m.Farmer,
		Location:  m.Location,
		Rating:    m.Rating,
		Quantity:  m.Quantity,
		Version:   m.Version,
	}
}

func cartFromModels(items []models.CartItem) CartDTO {
	out := CartDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		out.Items = append(out.Items, itemFromModel(&items[i]))
		out.QuantityTotal += items[i].Quantity
	}
	out.ItemCount = len(out.Items)
	return out
}
