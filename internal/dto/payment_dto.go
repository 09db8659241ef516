package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InitiatePaymentRequest struct {
	PlanID         uuid.UUID       `json:"planId"`
	PlanName       string          `json:"planName"`
	Amount         decimal.Decimal `json:"amount"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
	CustomerEmail  string          `json:"customerEmail"`
	PaymentType    string          `json:"paymentType"`
}

type InitiatePaymentResponse struct {
	Success         bool      `json:"success"`
	ReferenceNumber string    `json:"referenceNumber"`
	MerchantRefNum  string    `json:"merchantRefNum"`
	WalletQr        string    `json:"walletQr,omitempty"`
	SubscriptionID  uuid.UUID `json:"subscriptionId"`
}

// PaymentErrorResponse is the failure body of the payment endpoints. Code
// carries the gateway status code when the gateway rejected the charge.
type PaymentErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

type WebhookAck struct {
	Success bool `json:"success"`
}
