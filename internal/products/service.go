package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog browsing and seller product management.
type Service interface {
	List(ctx context.Context, query string) ([]ProductDTO, error)
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, sellerID, productID uuid.UUID) (*ProductDTO, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type sellerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams bundles the dependencies of the catalog service.
type ServiceParams struct {
	Repo    productRepository
	Users   sellerLookup
	Cache   cacheStore
	Catalog config.CatalogConfig
	Logger  *logger.Logger
}

type service struct {
	repo  productRepository
	users sellerLookup
	cache *listCache
}

// NewService builds the catalog service. The cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	svc := &service{repo: params.Repo, users: params.Users}
	if params.Cache != nil {
		svc.cache = &listCache{store: params.Cache, ttl: params.Catalog.ProductCacheTTL, logg: params.Logger}
	}
	return svc, nil
}

func (s *service) List(ctx context.Context, query string) ([]ProductDTO, error) {
	generation, cacheable := s.cache.generation(ctx)
	if cacheable {
		if all, ok := s.cache.get(ctx, generation); ok {
			return Filter(all, query), nil
		}
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	all := FromModels(rows)
	if cacheable {
		s.cache.put(ctx, generation, all)
	}
	return Filter(all, query), nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	return FromModels(rows), nil
}

// Create validates the add-product form before touching storage. The farmer and
// location come from the seller's profile.
func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	price := strings.TrimSpace(input.Price)
	if name == "" {
		return nil, pkgerrors.Validation("name", "Please enter product name")
	}
	if price == "" {
		return nil, pkgerrors.Validation("price", "Please enter product price")
	}

	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please login as a seller to access this page")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}

	image := strings.TrimSpace(input.Image)
	if image == "" {
		image = defaultImage
	}
	rating := defaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}

	product := &models.Product{
		SellerID:    seller.ID,
		Name:        name,
		Price:       price,
		PriceAmount: money.ParseAmount(price),
		Image:       image,
		Farmer:      seller.FullName,
		Rating:      rating,
		Location:    users.Location(seller.Address),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.cache.invalidate(ctx)

	dto := FromModel(product)
	return &dto, nil
}

// Delete removes a product owned by sellerID and returns what was removed.
func (s *service) Delete(ctx context.Context, sellerID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.cache.invalidate(ctx)

	dto := FromModel(product)
	return &dto, nil
}

func (s *service) load(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
