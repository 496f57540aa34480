package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shop-backend/internal/dto"
	"shop-backend/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateOrderResponse), args.Error(1)
}

func (m *MockOrderService) HandleWebhook(ctx context.Context, rawToken []byte) error {
	args := m.Called(ctx, rawToken)
	return args.Error(0)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, orderID string, req *dto.UpdateOrderRequest) error {
	args := m.Called(ctx, orderID, req)
	return args.Error(0)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func postWebhook(t *testing.T, svc *MockOrderService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/acquiring/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewOrderHandler(svc)
	assert.NoError(t, h.AcquiringWebhook(c))
	return rec
}

// The response code drives gateway redelivery, so the mapping is load
// bearing: terminal outcomes must be 2xx, transient ones must not.
func TestAcquiringWebhook_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"processed", nil, http.StatusOK},
		{"invalid token", model.ErrInvalidWebhook, http.StatusBadRequest},
		{"unexpected type is terminal", &model.UnexpectedWebhookTypeError{WebhookType: "incomingSbpPayment"}, http.StatusOK},
		{"order not yet visible is retryable", model.ErrOrderNotFound, http.StatusNotFound},
		{"storage trouble is retryable", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			svc.On("HandleWebhook", mock.Anything, []byte("token-body")).Return(tt.serviceErr)

			rec := postWebhook(t, svc, "token-body")

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestCreateOrder_MissingProductsBody(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, &model.ProductsNotFoundError{MissingIDs: []string{"ghost-a", "ghost-b"}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"customer_email":"a@b.c","shipping_address":"1 Main St","items":[{"product_id":"ghost-a","quantity":1}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewOrderHandler(svc).CreateOrder(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCreateOrder_RequiresContactFields(t *testing.T) {
	svc := new(MockOrderService)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"items":[{"product_id":"P1","quantity":1}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewOrderHandler(svc).CreateOrder(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}
