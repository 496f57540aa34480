package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shop-backend/internal/client"
	"shop-backend/internal/dto"
	"shop-backend/internal/metrics"
	"shop-backend/internal/model"
	"shop-backend/internal/repository"
	"shop-backend/internal/webhook"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockAcquiringClient struct {
	mock.Mock
}

func (m *MockAcquiringClient) CreatePaymentWithReceipt(ctx context.Context, req *client.CreatePaymentRequest) (*client.PaymentOperation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.PaymentOperation), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) ValidateWebhookToken(rawToken []byte) (*webhook.Payload, error) {
	args := m.Called(rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Payload), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, toAddress string, order *model.Order, items []*model.OrderItem) error {
	args := m.Called(ctx, toAddress, order, items)
	return args.Error(0)
}

type orderServiceFixture struct {
	svc       OrderService
	db        *gorm.DB
	gateway   *MockAcquiringClient
	verifier  *MockVerifier
	notifier  *MockNotifier
	orderRepo repository.OrderRepository
}

func newFixture(t *testing.T) *orderServiceFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Order{}, &model.OrderItem{}, &model.WebhookEvent{},
	))

	require.NoError(t, db.Create([]model.Product{
		{ID: "P1", Name: "Steel kettle", Category: model.CategoryElectronics, Price: 150000, Measure: model.MeasurePiece},
		{ID: "P2", Name: "Classic mug", Category: model.CategoryGeneral, Price: 60000, Measure: model.MeasurePiece},
	}).Error)

	gateway := new(MockAcquiringClient)
	verifier := new(MockVerifier)
	orderNotifier := new(MockNotifier)
	orderRepo := repository.NewOrderRepository(db)

	svc := NewOrderService(
		db,
		gateway,
		verifier,
		orderNotifier,
		repository.NewProductRepository(db),
		orderRepo,
		repository.NewWebhookEventRepository(db),
		metrics.NewShopMetricsWith(prometheus.NewRegistry()),
	)

	return &orderServiceFixture{
		svc:       svc,
		db:        db,
		gateway:   gateway,
		verifier:  verifier,
		notifier:  orderNotifier,
		orderRepo: orderRepo,
	}
}

func validRequest() *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		CustomerEmail:   "buyer@example.com",
		ShippingAddress: "1 Main St",
		Items: []*dto.OrderItemRequest{
			{ProductID: "P1", Quantity: 2},
		},
	}
}

func (f *orderServiceFixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&n).Error)
	return n
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreatePaymentWithReceipt", mock.Anything, mock.AnythingOfType("*client.CreatePaymentRequest")).
		Return(&client.PaymentOperation{OperationID: "op-1", PaymentLink: "https://pay/op-1"}, nil).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(*client.CreatePaymentRequest)
			assert.Equal(t, int64(300000), req.Total.Minor())
			assert.Equal(t, "buyer@example.com", req.CustomerEmail)
		})

	resp, err := f.svc.CreateOrder(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "op-1", resp.OperationID)
	assert.Equal(t, "https://pay/op-1", resp.PaymentLink)
	assert.Equal(t, int64(300000), resp.TotalPrice)
	assert.Equal(t, model.OrderStatusCreated, resp.Status)

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "op-1", order.OperationID)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	assert.Equal(t, int64(300000), order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "P1", order.Items[0].ProductID)
	assert.Equal(t, int32(2), order.Items[0].Quantity)
	assert.Equal(t, int64(150000), order.Items[0].UnitPrice)

	f.gateway.AssertExpectations(t)
}

func TestCreateOrder_DuplicatePosition(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Items = []*dto.OrderItemRequest{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P2", Quantity: 1},
		{ProductID: "P1", Quantity: 3},
	}

	_, err := f.svc.CreateOrder(context.Background(), req)

	var dup *model.DuplicatePositionsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "P1", dup.ProductID)

	assert.Equal(t, int64(0), f.countOrders(t))
	f.gateway.AssertNotCalled(t, "CreatePaymentWithReceipt", mock.Anything, mock.Anything)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Items[0].Quantity = 0

	_, err := f.svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	f.gateway.AssertNotCalled(t, "CreatePaymentWithReceipt", mock.Anything, mock.Anything)
}

func TestCreateOrder_AllMissingProductsListed(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.Items = []*dto.OrderItemRequest{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "ghost-b", Quantity: 1},
		{ProductID: "ghost-a", Quantity: 1},
	}

	_, err := f.svc.CreateOrder(context.Background(), req)

	var missing *model.ProductsNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ghost-a", "ghost-b"}, missing.MissingIDs)

	f.gateway.AssertNotCalled(t, "CreatePaymentWithReceipt", mock.Anything, mock.Anything)
}

func TestCreateOrder_GatewayFailure(t *testing.T) {
	f := newFixture(t)

	f.gateway.On("CreatePaymentWithReceipt", mock.Anything, mock.Anything).
		Return(nil, &model.PaymentGatewayError{StatusCode: 503, Body: "unavailable"})

	_, err := f.svc.CreateOrder(context.Background(), validRequest())

	var gwErr *model.PaymentGatewayError
	assert.ErrorAs(t, err, &gwErr)
	assert.Equal(t, int64(0), f.countOrders(t))
}

func (f *orderServiceFixture) createApprovableOrder(t *testing.T) *dto.CreateOrderResponse {
	t.Helper()

	f.gateway.On("CreatePaymentWithReceipt", mock.Anything, mock.Anything).
		Return(&client.PaymentOperation{OperationID: "op-1", PaymentLink: "https://pay/op-1"}, nil).Once()

	resp, err := f.svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	return resp
}

func paymentPayload(operationID string) *webhook.Payload {
	return &webhook.Payload{
		OperationID: operationID,
		WebhookType: webhook.TypeInternetPayment,
		Amount:      3000.00,
	}
}

func TestHandleWebhook_ApprovesAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createApprovableOrder(t)

	f.verifier.On("ValidateWebhookToken", []byte("token")).
		Return(paymentPayload("op-1"), nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, "buyer@example.com",
		mock.AnythingOfType("*model.Order"), mock.Anything).
		Return(nil)

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("token")))

	order, err := f.orderRepo.FindByID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, order.Status)

	f.notifier.AssertNumberOfCalls(t, "SendOrderConfirmation", 1)

	// Audit row written inside the approval transaction.
	var events int64
	require.NoError(t, f.db.Model(&model.WebhookEvent{}).
		Where("operation_id = ?", "op-1").Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestHandleWebhook_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createApprovableOrder(t)

	f.verifier.On("ValidateWebhookToken", []byte("token")).
		Return(paymentPayload("op-1"), nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("token")))
	// Gateways redeliver; the second delivery must be a silent success.
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("token")))

	f.notifier.AssertNumberOfCalls(t, "SendOrderConfirmation", 1)
}

func TestHandleWebhook_UnexpectedType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createApprovableOrder(t)

	f.verifier.On("ValidateWebhookToken", []byte("token")).
		Return(nil, &model.UnexpectedWebhookTypeError{WebhookType: "incomingSbpPayment"})

	err := f.svc.HandleWebhook(ctx, []byte("token"))

	var typeErr *model.UnexpectedWebhookTypeError
	require.ErrorAs(t, err, &typeErr)

	order, lookupErr := f.orderRepo.FindByID(ctx, created.OrderID)
	require.NoError(t, lookupErr)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	f.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_OrderNotFound(t *testing.T) {
	f := newFixture(t)

	f.verifier.On("ValidateWebhookToken", []byte("token")).
		Return(paymentPayload("op-unknown"), nil)

	err := f.svc.HandleWebhook(context.Background(), []byte("token"))
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	f.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_InvalidToken(t *testing.T) {
	f := newFixture(t)

	f.verifier.On("ValidateWebhookToken", []byte("junk")).
		Return(nil, model.ErrInvalidWebhook)

	err := f.svc.HandleWebhook(context.Background(), []byte("junk"))
	assert.ErrorIs(t, err, model.ErrInvalidWebhook)
}

func TestHandleWebhook_NotificationFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createApprovableOrder(t)

	f.verifier.On("ValidateWebhookToken", []byte("token")).
		Return(paymentPayload("op-1"), nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte("token")))

	order, err := f.orderRepo.FindByID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, order.Status)
}

func TestUpdateOrder_AdministrativeTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createApprovableOrder(t)

	err := f.svc.UpdateOrder(ctx, created.OrderID, &dto.UpdateOrderRequest{
		Status:         model.OrderStatusShipped,
		TrackingNumber: "TRACK-42",
	})
	require.NoError(t, err)

	order, err := f.orderRepo.FindByID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)
	assert.Equal(t, "TRACK-42", order.TrackingNumber)

	// The webhook-driven states are not valid administrative targets.
	err = f.svc.UpdateOrder(ctx, created.OrderID, &dto.UpdateOrderRequest{
		Status: model.OrderStatusApproved,
	})
	assert.Error(t, err)
}
