package fawry

import "strings"

const (
	StagingURL    = "https://atfawry.fawrystaging.com/ECommerceWeb/api/payments/charge"
	ProductionURL = "https://www.atfawry.com/ECommerceWeb/api/payments/charge"

	PaymentMethodWallet = "MWALLET"
	CurrencyEGP         = "EGP"
	LanguageEnglish     = "en-gb"

	// Payment types accepted from clients.
	TypeQR  = "qr"
	TypeR2P = "r2p"

	// Order statuses reported by server notifications.
	OrderPaid     = "PAID"
	OrderExpired  = "EXPIRED"
	OrderRefunded = "REFUNDED"
)

type ChargeItem struct {
	ItemID      string  `json:"itemId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ChargeRequest is the body POSTed to the charge endpoint.
type ChargeRequest struct {
	MerchantCode        string       `json:"merchantCode"`
	MerchantRefNum      string       `json:"merchantRefNum"`
	CustomerProfileID   string       `json:"customerProfileId"`
	PaymentMethod       string       `json:"paymentMethod"`
	CustomerName        string       `json:"customerName"`
	CustomerMobile      string       `json:"customerMobile"`
	CustomerEmail       string       `json:"customerEmail"`
	Amount              float64      `json:"amount"`
	CurrencyCode        string       `json:"currencyCode"`
	Description         string       `json:"description"`
	Language            string       `json:"language"`
	ChargeItems         []ChargeItem `json:"chargeItems"`
	DebitMobileWalletNo string       `json:"debitMobileWalletNo,omitempty"`
	Signature           string       `json:"signature"`
}

// ChargeResponse is the gateway's reply. StatusCode 200 means accepted.
type ChargeResponse struct {
	Type              string  `json:"type"`
	ReferenceNumber   string  `json:"referenceNumber"`
	MerchantRefNumber string  `json:"merchantRefNumber"`
	OrderAmount       float64 `json:"orderAmount"`
	PaymentAmount     float64 `json:"paymentAmount"`
	FawryFees         float64 `json:"fawryFees"`
	PaymentMethod     string  `json:"paymentMethod"`
	OrderStatus       string  `json:"orderStatus"`
	StatusCode        int     `json:"statusCode"`
	StatusDescription string  `json:"statusDescription"`
	WalletQr          string  `json:"walletQr"`
}

// Notification is the server-to-server callback sent when an order changes
// state. Older integrations send merchantRefNum, newer ones merchantRefNumber.
type Notification struct {
	RequestID              string  `json:"requestId"`
	FawryRefNumber         string  `json:"fawryRefNumber"`
	MerchantRefNum         string  `json:"merchantRefNum"`
	MerchantRefNumber      string  `json:"merchantRefNumber"`
	CustomerMobile         string  `json:"customerMobile"`
	CustomerMail           string  `json:"customerMail"`
	PaymentAmount          float64 `json:"paymentAmount"`
	OrderAmount            float64 `json:"orderAmount"`
	FawryFees              float64 `json:"fawryFees"`
	OrderStatus            string  `json:"orderStatus"`
	PaymentMethod          string  `json:"paymentMethod"`
	PaymentReferenceNumber string  `json:"paymentRefrenceNumber"`
	MessageSignature       string  `json:"messageSignature"`
}

// Ref returns the merchant reference number carried by the notification.
func (n *Notification) Ref() string {
	if n.MerchantRefNum != "" {
		return strings.TrimSpace(n.MerchantRefNum)
	}
	return strings.TrimSpace(n.MerchantRefNumber)
}
