package repository

import (
	"context"
	"errors"
	"time"

	"shop-backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByOperationID(ctx context.Context, operationID string) (*model.Order, error)
	// ApproveByOperationID performs the CREATED→APPROVED transition as a
	// compare-and-swap so duplicate webhook deliveries race safely: it
	// reports whether this call actually flipped the row.
	ApproveByOperationID(ctx context.Context, tx *gorm.DB, operationID string) (transitioned bool, err error)
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error)
	UpdateShipping(ctx context.Context, orderID string, status model.OrderStatus, trackingNumber string) error
	List(ctx context.Context, limit, offset int) ([]*model.Order, error)
	Delete(ctx context.Context, orderID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByOperationID(ctx context.Context, operationID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ApproveByOperationID(ctx context.Context, tx *gorm.DB, operationID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("operation_id = ? AND status = ?", operationID, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusApproved,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) UpdateShipping(ctx context.Context, orderID string, status model.OrderStatus, trackingNumber string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if status != "" {
		updates["status"] = status
	}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepoImpl) List(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", orderID).Delete(&model.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.ErrOrderNotFound
		}

		return nil
	})
}
