package dto

import "shop-backend/internal/model"

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerEmail   string              `json:"customer_email"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []*OrderItemRequest `json:"items"`
}

type CreateOrderResponse struct {
	OrderID     string            `json:"order_id"`
	OperationID string            `json:"operation_id"`
	PaymentLink string            `json:"payment_link"`
	TotalPrice  int64             `json:"total_price"`
	Status      model.OrderStatus `json:"status"`
}

type UpdateOrderRequest struct {
	Status         model.OrderStatus `json:"status,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
}

type ProductRequest struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    model.ProductCategory `json:"category"`
	Description string                `json:"description"`
	Price       int64                 `json:"price"`
	Measure     model.Measure         `json:"measure"`
	PhotoURL    string                `json:"photo_url,omitempty"`
}
