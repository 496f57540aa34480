// Package webhook authenticates and decodes the acquiring service's
// payment-result callbacks. The gateway POSTs a signed JWT as the raw
// request body; the verification key and expected type come from config.
package webhook

import (
	"crypto/rsa"
	"fmt"

	"shop-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TypeInternetPayment is the only webhook type that completes an order.
// The gateway's vocabulary also includes incomingSbpPayment and
// outgoingPayment; those are explicitly rejected here.
const TypeInternetPayment = "acquiringInternetPayment"

type Payload struct {
	OperationID string `json:"operationId"`
	WebhookType string `json:"webhookType"`
	// Amount is the paid amount in major units as reported by the gateway.
	Amount     float64 `json:"amount"`
	Purpose    string  `json:"purpose"`
	ConsumerID string  `json:"consumerId"`
	jwt.RegisteredClaims
}

type Verifier interface {
	// ValidateWebhookToken checks the token's RS256 signature and decodes
	// the payload. Every verification failure — bad signature, wrong
	// algorithm, garbage payload — comes back as the same
	// model.ErrInvalidWebhook so probes learn nothing. A token that
	// verifies but carries a non-payment type fails with
	// UnexpectedWebhookTypeError.
	ValidateWebhookToken(rawToken []byte) (*Payload, error)
}

type verifierImpl struct {
	publicKey    *rsa.PublicKey
	expectedType string
}

func NewVerifier(publicKeyPEM string) (Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse webhook public key: %w", err)
	}
	return &verifierImpl{
		publicKey:    key,
		expectedType: TypeInternetPayment,
	}, nil
}

func (v *verifierImpl) ValidateWebhookToken(rawToken []byte) (*Payload, error) {
	var payload Payload
	_, err := jwt.ParseWithClaims(string(rawToken), &payload,
		func(t *jwt.Token) (interface{}, error) {
			return v.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)
	if err != nil {
		return nil, model.ErrInvalidWebhook
	}

	if payload.WebhookType != v.expectedType {
		return nil, &model.UnexpectedWebhookTypeError{WebhookType: payload.WebhookType}
	}
	if payload.OperationID == "" {
		return nil, model.ErrInvalidWebhook
	}

	return &payload, nil
}
