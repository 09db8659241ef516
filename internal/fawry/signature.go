package fawry

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const refAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ChargeSignature signs a mobile-wallet charge:
//
//	sha256(merchantCode + merchantRefNum + customerProfileId + "MWALLET" + amount + [mobile] + secureKey)
//
// amount is formatted with two decimals. mobile is only part of the signed
// string for request-to-pay charges; pass "" for QR charges.
func ChargeSignature(merchantCode, merchantRefNum, customerProfileID string, amount decimal.Decimal, mobile, secureKey string) string {
	var b strings.Builder
	b.WriteString(merchantCode)
	b.WriteString(merchantRefNum)
	b.WriteString(customerProfileID)
	b.WriteString(PaymentMethodWallet)
	b.WriteString(amount.StringFixed(2))
	b.WriteString(mobile)
	b.WriteString(secureKey)
	return sha256Hex(b.String())
}

// NotificationSignature computes the messageSignature of a server notification.
func NotificationSignature(n *Notification, secureKey string) string {
	var b strings.Builder
	b.WriteString(n.FawryRefNumber)
	b.WriteString(n.Ref())
	b.WriteString(decimal.NewFromFloat(n.PaymentAmount).StringFixed(2))
	b.WriteString(decimal.NewFromFloat(n.OrderAmount).StringFixed(2))
	b.WriteString(n.OrderStatus)
	b.WriteString(n.PaymentMethod)
	b.WriteString(n.PaymentReferenceNumber)
	b.WriteString(secureKey)
	return sha256Hex(b.String())
}

// VerifyNotification reports whether the notification was signed with secureKey.
func VerifyNotification(n *Notification, secureKey string) bool {
	return n.MessageSignature != "" && strings.EqualFold(NotificationSignature(n, secureKey), n.MessageSignature)
}

// NewMerchantRefNum returns "MRN" + unix millis + 6 random base-36 characters.
func NewMerchantRefNum(now time.Time) string {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		suffix[i] = refAlphabet[n.Int64()]
	}
	return "MRN" + strconv.FormatInt(now.UnixMilli(), 10) + string(suffix)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
