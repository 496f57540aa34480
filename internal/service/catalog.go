package service

import (
	"context"

	"shop-backend/internal/dto"
	"shop-backend/internal/model"
	"shop-backend/internal/repository"
)

type CatalogService interface {
	ListProducts(ctx context.Context, category model.ProductCategory) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) error
	DeleteProduct(ctx context.Context, productID string) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, category model.ProductCategory) ([]*model.Product, error) {
	return s.productRepo.List(ctx, category)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if _, err := model.NewPrice(req.Price); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Measure:     req.Measure,
		PhotoURL:    req.PhotoURL,
	}
	if product.Category == "" {
		product.Category = model.CategoryGeneral
	}
	if product.Measure == "" {
		product.Measure = model.MeasurePiece
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) error {
	if _, err := model.NewPrice(req.Price); err != nil {
		return err
	}

	return s.productRepo.Update(ctx, &model.Product{
		ID:          productID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Measure:     req.Measure,
		PhotoURL:    req.PhotoURL,
	})
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}
