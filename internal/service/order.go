package service

import (
	"context"
	"fmt"

	"shop-backend/internal/client"
	"shop-backend/internal/dto"
	"shop-backend/internal/metrics"
	"shop-backend/internal/model"
	"shop-backend/internal/notifier"
	"shop-backend/internal/pricing"
	"shop-backend/internal/repository"
	"shop-backend/internal/webhook"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

const paymentPurpose = "Online shop order payment"

var defaultPaymentModes = []string{"card", "sbp"}

type OrderService interface {
	// CreateOrder prices the requested lines, registers a payment intent
	// with the acquiring service and persists the order in one
	// transaction. The gateway call happens before the DB write begins,
	// so the intent can be orphaned if the commit fails afterwards;
	// reconciliation of such intents is out of band.
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// HandleWebhook verifies the raw signed token and performs the
	// idempotent CREATED→APPROVED transition plus the confirmation email.
	HandleWebhook(ctx context.Context, rawToken []byte) error

	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*model.Order, error)
	UpdateOrder(ctx context.Context, orderID string, req *dto.UpdateOrderRequest) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type orderServiceImpl struct {
	db               *gorm.DB
	acquiringClient  client.AcquiringClient
	verifier         webhook.Verifier
	notifier         notifier.Notifier
	productRepo      repository.ProductRepository
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	metrics          *metrics.ShopMetrics
}

func NewOrderService(
	db *gorm.DB,
	acquiringClient client.AcquiringClient,
	verifier webhook.Verifier,
	orderNotifier notifier.Notifier,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	shopMetrics *metrics.ShopMetrics,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		acquiringClient:  acquiringClient,
		verifier:         verifier,
		notifier:         orderNotifier,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		metrics:          shopMetrics,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	productIDs := make([]string, len(req.Items))
	quantityByID := make(map[string]int32, len(req.Items))
	for i, item := range req.Items {
		if _, ok := quantityByID[item.ProductID]; ok {
			return nil, &model.DuplicatePositionsError{ProductID: item.ProductID}
		}
		if item.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
		productIDs[i] = item.ProductID
		quantityByID[item.ProductID] = item.Quantity
	}

	products, missing, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	if len(missing) > 0 {
		return nil, &model.ProductsNotFoundError{MissingIDs: missing}
	}

	// Prices are captured here, once. Later catalog edits never touch
	// this order's lines.
	lines := make([]pricing.Line, len(products))
	for i, product := range products {
		line, err := pricing.NewLine(product, quantityByID[product.ID])
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}

	total, err := pricing.Total(lines)
	if err != nil {
		return nil, err
	}

	operation, err := s.acquiringClient.CreatePaymentWithReceipt(ctx, &client.CreatePaymentRequest{
		CustomerEmail: req.CustomerEmail,
		Lines:         lines,
		Total:         total,
		Purpose:       paymentPurpose,
		PaymentModes:  defaultPaymentModes,
	})
	if err != nil {
		s.metrics.GatewayErrors.Inc()
		return nil, err
	}

	orderID := uuid.NewString()
	order := &model.Order{
		ID:              orderID,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		OperationID:     operation.OperationID,
		TotalPrice:      total.Minor(),
		Status:          model.OrderStatusCreated,
	}

	orderItems := make([]*model.OrderItem, len(lines))
	for i, line := range lines {
		orderItems[i] = &model.OrderItem{
			OrderID:   orderID,
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return nil
	})
	if err != nil {
		// The gateway intent operation.OperationID is now orphaned; there
		// is no compensating call, a reconciliation job has to sweep it.
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()

	return &dto.CreateOrderResponse{
		OrderID:     orderID,
		OperationID: operation.OperationID,
		PaymentLink: operation.PaymentLink,
		TotalPrice:  total.Minor(),
		Status:      model.OrderStatusCreated,
	}, nil
}

func (s *orderServiceImpl) HandleWebhook(ctx context.Context, rawToken []byte) error {
	payload, err := s.verifier.ValidateWebhookToken(rawToken)
	if err != nil {
		s.metrics.WebhooksRejected.Inc()
		return err
	}

	order, err := s.orderRepo.FindByOperationID(ctx, payload.OperationID)
	if err != nil {
		return fmt.Errorf("lookup order for operation %s: %w", payload.OperationID, err)
	}

	// Redeliveries are expected; anything past CREATED was already
	// handled and must not notify again.
	if order.Status != model.OrderStatusCreated {
		log.Infof("webhook replay for operation %s ignored, order %s already %s",
			payload.OperationID, order.ID, order.Status)
		return nil
	}

	transitioned := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transitioned, err = s.orderRepo.ApproveByOperationID(ctx, tx, payload.OperationID)
		if err != nil {
			return fmt.Errorf("approve order: %w", err)
		}
		if !transitioned {
			// Lost the race against a concurrent delivery of the same
			// webhook. Same outcome as the replay case above.
			return nil
		}
		if err := s.webhookEventRepo.RecordProcessed(ctx, tx, payload.OperationID, payload.WebhookType); err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	s.metrics.WebhooksProcessed.Inc()

	items, err := s.orderRepo.GetOrderItems(ctx, s.db, order.ID)
	if err != nil {
		log.Errorf("load items for confirmation of order %s: %v", order.ID, err)
		return nil
	}

	order.Status = model.OrderStatusApproved
	if err := s.notifier.SendOrderConfirmation(ctx, order.CustomerEmail, order, items); err != nil {
		// The order is paid; the email is a courtesy. Log and move on.
		log.Errorf("send confirmation for order %s to %s: %v", order.ID, order.CustomerEmail, err)
	}

	return nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.List(ctx, limit, offset)
}

func (s *orderServiceImpl) UpdateOrder(ctx context.Context, orderID string, req *dto.UpdateOrderRequest) error {
	if req.Status == "" && req.TrackingNumber == "" {
		return fmt.Errorf("nothing to update")
	}
	if req.Status != "" {
		switch req.Status {
		case model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusCompleted,
			model.OrderStatusCancelled, model.OrderStatusFailed:
		default:
			return fmt.Errorf("status %s is not an administrative transition", req.Status)
		}
	}
	return s.orderRepo.UpdateShipping(ctx, orderID, req.Status, req.TrackingNumber)
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID string) error {
	return s.orderRepo.Delete(ctx, orderID)
}
