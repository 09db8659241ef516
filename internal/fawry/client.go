// Package fawry is a client for the FawryPay mobile-wallet charge API.
package fawry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coworkhub/backend/internal/config"
	"github.com/coworkhub/backend/internal/metrics"
	"github.com/shopspring/decimal"
)

var ErrNotConfigured = errors.New("payment configuration error")

// GatewayError is returned when the gateway answers with a non-200 statusCode.
// Description is the gateway's statusDescription and is meant to be shown to
// the payer as is.
type GatewayError struct {
	Code        int
	Description string
}

func (e *GatewayError) Error() string {
	if e.Description == "" {
		return "Payment failed"
	}
	return e.Description
}

// Charge describes one membership charge.
type Charge struct {
	MerchantRefNum    string
	CustomerProfileID string
	CustomerName      string
	CustomerMobile    string
	CustomerEmail     string
	Amount            decimal.Decimal
	ItemID            string
	ItemName          string
	PaymentType       string
}

// Gateway submits charges to the payment provider.
type Gateway interface {
	Charge(ctx context.Context, ch Charge) (*ChargeResponse, error)
}

type Client struct {
	merchantCode string
	secureKey    string
	url          string
	httpClient   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	url := StagingURL
	if cfg.FawryProduction {
		url = ProductionURL
	}
	return NewClientWithURL(cfg.FawryMerchantCode, cfg.FawrySecureKey, url, cfg.FawryTimeout)
}

func NewClientWithURL(merchantCode, secureKey, url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		merchantCode: merchantCode,
		secureKey:    secureKey,
		url:          url,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// BuildRequest assembles and signs the charge body.
func (c *Client) BuildRequest(ch Charge) ChargeRequest {
	amount := ch.Amount.Round(2)
	price := amount.InexactFloat64()

	mobileForSig := ""
	if ch.PaymentType == TypeR2P {
		mobileForSig = ch.CustomerMobile
	}

	req := ChargeRequest{
		MerchantCode:      c.merchantCode,
		MerchantRefNum:    ch.MerchantRefNum,
		CustomerProfileID: ch.CustomerProfileID,
		PaymentMethod:     PaymentMethodWallet,
		CustomerName:      ch.CustomerName,
		CustomerMobile:    ch.CustomerMobile,
		CustomerEmail:     ch.CustomerEmail,
		Amount:            price,
		CurrencyCode:      CurrencyEGP,
		Description:       "Membership: " + ch.ItemName,
		Language:          LanguageEnglish,
		ChargeItems: []ChargeItem{{
			ItemID:      ch.ItemID,
			Description: ch.ItemName,
			Price:       price,
			Quantity:    1,
		}},
		Signature: ChargeSignature(c.merchantCode, ch.MerchantRefNum, ch.CustomerProfileID, amount, mobileForSig, c.secureKey),
	}
	if ch.PaymentType == TypeR2P {
		req.DebitMobileWalletNo = ch.CustomerMobile
	}
	return req
}

// Charge posts a charge request. A non-200 statusCode in the reply is
// returned as *GatewayError.
func (c *Client) Charge(ctx context.Context, ch Charge) (*ChargeResponse, error) {
	if c.merchantCode == "" || c.secureKey == "" {
		slog.Error("missing FawryPay credentials")
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(c.BuildRequest(ch))
	if err != nil {
		return nil, fmt.Errorf("encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	slog.Info("sending fawry charge", "merchant_ref_num", ch.MerchantRefNum, "payment_type", ch.PaymentType)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.ObserveGateway("charge", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fawry request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read fawry response: %w", err)
	}

	var out ChargeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode fawry response (http %d): %w", resp.StatusCode, err)
	}

	if out.StatusCode != http.StatusOK {
		slog.Warn("fawry charge rejected",
			"merchant_ref_num", ch.MerchantRefNum,
			"status_code", out.StatusCode,
			"status_description", out.StatusDescription,
		)
		return nil, &GatewayError{Code: out.StatusCode, Description: out.StatusDescription}
	}
	return &out, nil
}
