package model

import "time"

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "CREATED"
	OrderStatusApproved   OrderStatus = "APPROVED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

// Measure is the unit-of-measurement code sent to the acquiring service
// in receipt line items.
type Measure string

const (
	MeasurePiece    Measure = "piece"
	MeasureKilogram Measure = "kilogram"
	MeasureLiter    Measure = "liter"
	MeasurePackage  Measure = "package"
)

type ProductCategory string

const (
	CategoryGeneral     ProductCategory = "GENERAL"
	CategoryFood        ProductCategory = "FOOD"
	CategoryElectronics ProductCategory = "ELECTRONICS"
	CategoryClothes     ProductCategory = "CLOTHES"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:64;not null" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Category    ProductCategory `gorm:"size:32;index;not null" json:"category"`
	Description string          `gorm:"size:1024" json:"description"`
	// Price in minor currency units (cents).
	Price    int64   `gorm:"not null" json:"price"`
	Measure  Measure `gorm:"size:16;not null" json:"measure"`
	PhotoURL string  `gorm:"size:512" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID              string `gorm:"primaryKey;size:64;not null" json:"id"`
	CustomerEmail   string `gorm:"size:255;index;not null" json:"customer_email"`
	ShippingAddress string `gorm:"size:512;not null" json:"shipping_address"`
	// OperationID is the acquiring service's payment intent id. Set once at
	// creation; webhooks correlate on it.
	OperationID    string      `gorm:"size:64;uniqueIndex;not null" json:"operation_id"`
	TrackingNumber string      `gorm:"size:64" json:"tracking_number,omitempty"`
	TotalPrice     int64       `gorm:"not null" json:"total_price"`
	Status         OrderStatus `gorm:"size:32;index;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	// FK → orders.id
	OrderID string `gorm:"primaryKey;size:64;not null" json:"order_id"`
	// FK → products.id; the product may change or disappear later without
	// invalidating the historical line.
	ProductID string `gorm:"primaryKey;size:64;not null" json:"product_id"`
	Quantity  int32  `gorm:"not null;check:quantity > 0" json:"quantity"`
	// UnitPrice is the catalog price captured at order time, in minor units.
	UnitPrice int64 `gorm:"not null" json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
}

// WebhookEvent is an audit row written for every payment webhook that
// actually transitioned an order.
type WebhookEvent struct {
	ID          uint   `gorm:"primaryKey"`
	OperationID string `gorm:"size:64;index;not null"`
	WebhookType string `gorm:"size:64;not null"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
