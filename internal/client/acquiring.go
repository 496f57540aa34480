package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"shop-backend/internal/config"
	"shop-backend/internal/model"
	"shop-backend/internal/pricing"
)

type AcquiringClient interface {
	// CreatePaymentWithReceipt registers a payment intent with a fiscal
	// receipt at the acquiring service and returns the operation id plus
	// the link the customer pays at.
	CreatePaymentWithReceipt(ctx context.Context, req *CreatePaymentRequest) (*PaymentOperation, error)
}

type CreatePaymentRequest struct {
	CustomerEmail string
	Lines         []pricing.Line
	Total         model.Price
	Purpose       string
	PaymentModes  []string
	SaveCard      bool
	// ConsumerID is the gateway-side customer reference; empty means an
	// anonymous payment.
	ConsumerID string
}

type PaymentOperation struct {
	OperationID string
	PaymentLink string
}

type receiptItem struct {
	Name          string `json:"name"`
	Amount        string `json:"amount"`
	Quantity      int32  `json:"quantity"`
	Measure       string `json:"measure"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	VatType       string `json:"vatType,omitempty"`
	PaymentObject string `json:"paymentObject,omitempty"`
}

type createPaymentBody struct {
	CustomerCode    string        `json:"customerCode"`
	MerchantID      string        `json:"merchantId,omitempty"`
	Amount          string        `json:"amount"`
	Purpose         string        `json:"purpose"`
	RedirectURL     string        `json:"redirectUrl"`
	FailRedirectURL string        `json:"failRedirectUrl"`
	PaymentMode     []string      `json:"paymentMode"`
	SaveCard        bool          `json:"saveCard,omitempty"`
	ConsumerID      string        `json:"consumerId,omitempty"`
	Email           string        `json:"email"`
	Items           []receiptItem `json:"Items"`
}

type createPaymentResult struct {
	Data struct {
		OperationID string `json:"operationId"`
		PaymentLink string `json:"paymentLink"`
	} `json:"Data"`
}

type acquiringClientImpl struct {
	httpClient      *http.Client
	baseApiURL      string
	token           string
	customerCode    string
	merchantID      string
	redirectURL     string
	failRedirectURL string
}

func NewAcquiringClient(acquiringCfg *config.Acquiring) AcquiringClient {
	return &acquiringClientImpl{
		httpClient: &http.Client{
			Timeout: acquiringCfg.Timeout,
		},
		baseApiURL:      acquiringCfg.BaseApiURL,
		token:           acquiringCfg.Token,
		customerCode:    acquiringCfg.CustomerCode,
		merchantID:      acquiringCfg.MerchantID,
		redirectURL:     acquiringCfg.RedirectURL,
		failRedirectURL: acquiringCfg.FailRedirectURL,
	}
}

func (c *acquiringClientImpl) CreatePaymentWithReceipt(ctx context.Context, req *CreatePaymentRequest) (*PaymentOperation, error) {
	if len(req.Lines) == 0 {
		return nil, model.ErrEmptyOrder
	}
	if req.Total.Minor() <= 0 {
		return nil, model.ErrInvalidPrice
	}

	items := make([]receiptItem, len(req.Lines))
	for i, line := range req.Lines {
		lineAmount, err := model.NewPrice(line.Amount())
		if err != nil {
			return nil, fmt.Errorf("line amount for product %s: %w", line.Product.ID, err)
		}
		items[i] = receiptItem{
			Name: line.Product.Name,
			// Same minor→major conversion the Price value object does
			// everywhere else, so the charged and recorded amounts agree.
			Amount:        lineAmount.MajorString(),
			Quantity:      line.Quantity,
			Measure:       string(line.Product.Measure),
			PaymentMethod: "full_payment",
			VatType:       "none",
			PaymentObject: "goods",
		}
	}

	payload := createPaymentBody{
		CustomerCode:    c.customerCode,
		MerchantID:      c.merchantID,
		Amount:          req.Total.MajorString(),
		Purpose:         req.Purpose,
		RedirectURL:     c.redirectURL,
		FailRedirectURL: c.failRedirectURL,
		PaymentMode:     req.PaymentModes,
		SaveCard:        req.SaveCard,
		ConsumerID:      req.ConsumerID,
		Email:           req.CustomerEmail,
		Items:           items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/acquiring/v1.0/payments_with_receipt",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.PaymentGatewayError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &model.PaymentGatewayError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var result createPaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &model.PaymentGatewayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Data.OperationID == "" || result.Data.PaymentLink == "" {
		return nil, &model.PaymentGatewayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response missing operationId or paymentLink")}
	}

	return &PaymentOperation{
		OperationID: result.Data.OperationID,
		PaymentLink: result.Data.PaymentLink,
	}, nil
}
