package repository

import (
	"context"
	"errors"
	"sort"

	"shop-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	// FindMany resolves all ids in one query and reports every id that has
	// no catalog row, not just the first.
	FindMany(ctx context.Context, productIDs []string) (found []*model.Product, missingIDs []string, err error)
	List(ctx context.Context, category model.ProductCategory) ([]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "tea_green_250", Name: "Green tea 250g", Category: model.CategoryFood, Description: "Loose-leaf green tea", Price: 45000, Measure: model.MeasurePackage},
		{ID: "mug_classic", Name: "Classic mug", Category: model.CategoryGeneral, Description: "Ceramic mug, 350ml", Price: 60000, Measure: model.MeasurePiece},
		{ID: "kettle_steel", Name: "Steel kettle", Category: model.CategoryElectronics, Description: "Electric kettle, 1.7l", Price: 350000, Measure: model.MeasurePiece},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, []string, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(products))
	for _, p := range products {
		foundSet[p.ID] = struct{}{}
	}

	var missing []string
	for _, id := range productIDs {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	return products, missing, nil
}

func (r *productRepoImpl) List(ctx context.Context, category model.ProductCategory) ([]*model.Product, error) {
	var products []*model.Product
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"category":    product.Category,
			"description": product.Description,
			"price":       product.Price,
			"measure":     product.Measure,
			"photo_url":   product.PhotoURL,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrProductNotFound
	}

	return nil
}
