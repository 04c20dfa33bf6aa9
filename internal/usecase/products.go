package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickbite/kiosk-api/internal/entity"
)

var (
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidPrice    = errors.New("product price must be positive")
)

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    entity.ProductCategory
	ImageURL    string
}

type ProductService struct {
	products ProductRepo
	newID    func() string
}

func NewProductService(products ProductRepo) *ProductService {
	return &ProductService{products: products, newID: uuid.NewString}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	product := &entity.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, err
	}
	product := &entity.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *ProductService) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) FindByCategory(ctx context.Context, category entity.ProductCategory) ([]*entity.Product, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.products.FindByCategory(ctx, category)
}

func validateProduct(in ProductInput) error {
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	if !in.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
