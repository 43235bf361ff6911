package products

import (
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultImage  = "🌾"
	defaultRating = 4.5
)

// ProductDTO is the catalog entry returned to buyers and sellers.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	SellerID    uuid.UUID        `json:"seller_id"`
	Name        string           `json:"name"`
	Price       string           `json:"price"`
	PriceAmount *decimal.Decimal `json:"price_amount,omitempty"`
	Image       string           `json:"image"`
	Farmer      string           `json:"farmer"`
	Rating      float64          `json:"rating"`
	Location    string           `json:"location"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CreateProductInput is the seller's add-product form.
type CreateProductInput struct {
	Name   string   `json:"name"`
	Price  string   `json:"price"`
	Image  string   `json:"image"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
}

func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Farmer:    p.Farmer,
		Rating:    p.Rating,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
	}
	if p.PriceAmount.Valid {
		amount := p.PriceAmount.Decimal
		dto.PriceAmount = &amount
	}
	return dto
}

func FromModels(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
