package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/database"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/events"
	"github.com/coworkhub/backend/internal/fawry"
	"github.com/coworkhub/backend/internal/metrics"
	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidMobile       = errors.New("Invalid mobile number. Must be 11 digits starting with 01")
	ErrInvalidPaymentType  = errors.New("paymentType must be qr or r2p")
	ErrPlanNotPurchasable  = errors.New("membership plan is not available for purchase")
	ErrPaymentNotFound     = errors.New("Payment not found")
	ErrMissingMerchantRef  = errors.New("Invalid webhook payload")
	ErrInvalidWebhookSig   = errors.New("invalid webhook signature")
	ErrSubscriptionMissing = errors.New("subscription not found")
)

var mobilePattern = regexp.MustCompile(`^01\d{9}$`)

// PaymentService drives the membership payment flow: a charge is initiated
// against the gateway, then the gateway's server notification settles it.
type PaymentService struct {
	db            *gorm.DB
	gateway       fawry.Gateway
	catalog       catalog.Reader
	events        events.Publisher
	notifications *NotificationService
	now           func() time.Time
}

func NewPaymentService(db *gorm.DB, gateway fawry.Gateway, reader catalog.Reader, publisher events.Publisher, notifications *NotificationService) *PaymentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PaymentService{
		db:            db,
		gateway:       gateway,
		catalog:       reader,
		events:        publisher,
		notifications: notifications,
		now:           time.Now,
	}
}

// Initiate validates the request, submits a wallet charge and records the
// pending subscription and payment. Nothing is written when the gateway
// rejects the charge.
func (s *PaymentService) Initiate(ctx context.Context, userID uuid.UUID, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	paymentType := strings.ToLower(req.PaymentType)
	if paymentType == "" {
		paymentType = fawry.TypeQR
	}
	if paymentType != fawry.TypeQR && paymentType != fawry.TypeR2P {
		metrics.PaymentInitiated(paymentType, "invalid")
		return nil, ErrInvalidPaymentType
	}
	if !mobilePattern.MatchString(req.CustomerMobile) {
		metrics.PaymentInitiated(paymentType, "invalid")
		return nil, ErrInvalidMobile
	}

	plan, err := s.catalog.GetPlan(ctx, req.PlanID)
	if err != nil {
		metrics.PaymentInitiated(paymentType, "invalid")
		return nil, err
	}
	if !plan.IsActive || !plan.Price.IsPositive() {
		metrics.PaymentInitiated(paymentType, "invalid")
		return nil, ErrPlanNotPurchasable
	}
	if !req.Amount.IsZero() && !req.Amount.Equal(plan.Price) {
		slog.Warn("client amount differs from plan price, charging plan price",
			"user_id", userID.String(), "plan_id", plan.ID.String(),
			"client_amount", req.Amount.StringFixed(2), "plan_price", plan.Price.StringFixed(2))
	}

	merchantRef := fawry.NewMerchantRefNum(s.now())
	resp, err := s.gateway.Charge(ctx, fawry.Charge{
		MerchantRefNum:    merchantRef,
		CustomerProfileID: userID.String(),
		CustomerName:      req.CustomerName,
		CustomerMobile:    req.CustomerMobile,
		CustomerEmail:     req.CustomerEmail,
		Amount:            plan.Price,
		ItemID:            plan.ID.String(),
		ItemName:          plan.Name,
		PaymentType:       paymentType,
	})
	if err != nil {
		var gwErr *fawry.GatewayError
		if errors.As(err, &gwErr) {
			metrics.PaymentInitiated(paymentType, "rejected")
		} else {
			metrics.PaymentInitiated(paymentType, "error")
		}
		return nil, err
	}

	sub := &models.Subscription{
		UserID:         userID,
		PlanID:         plan.ID,
		Status:         models.SubscriptionPending,
		FawryReference: resp.ReferenceNumber,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return tx.Create(&models.Payment{
			UserID:         userID,
			SubscriptionID: &sub.ID,
			Amount:         plan.Price,
			Currency:       fawry.CurrencyEGP,
			FawryReference: resp.ReferenceNumber,
			MerchantRefNum: merchantRef,
			PaymentMethod:  fawry.PaymentMethodWallet,
			Status:         models.PaymentPending,
		}).Error
	})
	if err != nil {
		metrics.PaymentInitiated(paymentType, "error")
		slog.Error("failed to record payment", "user_id", userID.String(),
			"merchant_ref_num", merchantRef, "error", err)
		return nil, fmt.Errorf("record payment: %w", err)
	}

	metrics.PaymentInitiated(paymentType, "pending")
	returnedRef := resp.MerchantRefNumber
	if returnedRef == "" {
		returnedRef = merchantRef
	}
	return &dto.InitiatePaymentResponse{
		Success:         true,
		ReferenceNumber: resp.ReferenceNumber,
		MerchantRefNum:  returnedRef,
		WalletQr:        resp.WalletQr,
		SubscriptionID:  sub.ID,
	}, nil
}

// StatusFor maps a gateway order status to a payment status.
func StatusFor(orderStatus string) string {
	switch strings.ToUpper(orderStatus) {
	case fawry.OrderPaid:
		return models.PaymentCompleted
	case fawry.OrderExpired:
		return models.PaymentFailed
	case fawry.OrderRefunded:
		return models.PaymentRefunded
	default:
		return models.PaymentPending
	}
}

// canTransition lists the payment moves a gateway notification may make.
// PAID is honoured from pending, or from failed when the customer pays after
// the reference expired. EXPIRED only fails a pending payment and REFUNDED
// only reverses a completed one. Refunded is terminal.
func canTransition(from, to string) bool {
	switch to {
	case models.PaymentCompleted:
		return from == models.PaymentPending || from == models.PaymentFailed
	case models.PaymentFailed:
		return from == models.PaymentPending
	case models.PaymentRefunded:
		return from == models.PaymentCompleted
	}
	return false
}

// Confirm applies a gateway notification. The payment row is locked for the
// duration. A notification whose status the payment already carries, or one
// canTransition refuses, is acknowledged without changes, so retried or late
// callbacks never grant credits twice. A refund cancels the active
// subscription. Unknown references are acknowledged without changes.
func (s *PaymentService) Confirm(ctx context.Context, n *fawry.Notification) error {
	ref := n.Ref()
	if ref == "" {
		metrics.Webhook(n.OrderStatus, "invalid")
		return ErrMissingMerchantRef
	}
	target := StatusFor(n.OrderStatus)
	if target == models.PaymentPending {
		metrics.Webhook(n.OrderStatus, "ignored")
		return nil
	}

	var (
		payment      models.Payment
		notification *models.Notification
		outcome      = "applied"
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("merchant_ref_num = ?", ref)
		if database.IsPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = "unknown_ref"
				return nil
			}
			return err
		}
		if payment.Status == target {
			outcome = "duplicate"
			return nil
		}
		if !canTransition(payment.Status, target) {
			outcome = "rejected"
			return nil
		}

		updates := map[string]interface{}{"status": target}
		if n.FawryRefNumber != "" {
			updates["fawry_reference"] = n.FawryRefNumber
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = target

		if payment.SubscriptionID == nil {
			return nil
		}
		switch target {
		case models.PaymentCompleted:
			var err error
			notification, err = s.activate(tx, *payment.SubscriptionID)
			return err
		case models.PaymentRefunded:
			return tx.Model(&models.Subscription{}).
				Where("id = ? AND status = ?", *payment.SubscriptionID, models.SubscriptionActive).
				Update("status", models.SubscriptionCancelled).Error
		}
		return nil
	})
	if err != nil {
		metrics.Webhook(n.OrderStatus, "error")
		slog.Error("failed to apply payment notification", "merchant_ref_num", ref,
			"action", "payment_webhook", "error", err)
		return fmt.Errorf("apply payment notification: %w", err)
	}

	metrics.Webhook(n.OrderStatus, outcome)
	switch outcome {
	case "unknown_ref":
		slog.Warn("payment notification for unknown reference", "merchant_ref_num", ref)
		return nil
	case "duplicate":
		slog.Info("duplicate payment notification ignored", "merchant_ref_num", ref, "status", target)
		return nil
	case "rejected":
		slog.Warn("payment notification out of order ignored", "merchant_ref_num", ref,
			"from", payment.Status, "to", target)
		return nil
	}

	key := events.PaymentCompleted
	if target != models.PaymentCompleted {
		key = events.PaymentFailed
	}
	events.Emit(ctx, s.events, key, events.PaymentEvent{
		PaymentID:      payment.ID,
		UserID:         payment.UserID,
		SubscriptionID: payment.SubscriptionID,
		MerchantRefNum: payment.MerchantRefNum,
		Status:         target,
		OccurredAt:     s.now().UTC(),
	})
	if notification != nil && s.notifications != nil {
		s.notifications.Deliver(ctx, notification)
	}
	return nil
}

// activate turns a paid subscription on for one calendar month and grants
// the plan's credits to the member's profile.
func (s *PaymentService) activate(tx *gorm.DB, subscriptionID uuid.UUID) (*models.Notification, error) {
	var sub models.Subscription
	if err := tx.Preload("Plan").First(&sub, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionMissing
		}
		return nil, err
	}

	start := s.now().UTC()
	end := start.AddDate(0, 1, 0)
	if err := tx.Model(&sub).Updates(map[string]interface{}{
		"status":               models.SubscriptionActive,
		"current_period_start": start,
		"current_period_end":   end,
	}).Error; err != nil {
		return nil, err
	}

	if sub.Plan == nil {
		return nil, nil
	}

	var profile models.Profile
	err := tx.Where("user_id = ?", sub.UserID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: sub.UserID}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	if err := tx.Model(&profile).Updates(map[string]interface{}{
		"membership_type": strings.ToLower(sub.Plan.Name),
		"credits":         sub.Plan.CreditsPerMonth,
	}).Error; err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:    sub.UserID,
		Title:     "Payment Successful",
		Message:   fmt.Sprintf("Your %s membership is now active!", sub.Plan.Name),
		Type:      models.NotificationPayment,
		ActionURL: "/membership",
	}
	if s.notifications != nil {
		if err := s.notifications.Record(tx, n); err != nil {
			return nil, err
		}
	} else if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// GetStatus returns the payment with its subscription.
func (s *PaymentService) GetStatus(ctx context.Context, merchantRefNum string) (*models.Payment, error) {
	if merchantRefNum == "" {
		return nil, errors.New("merchantRefNum is required")
	}
	var payment models.Payment
	err := s.db.WithContext(ctx).Preload("Subscription").
		Where("merchant_ref_num = ?", merchantRefNum).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &payment, nil
}

// ActiveSubscription returns the member's current active subscription with
// its plan, or nil when there is none.
func (s *PaymentService) ActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Preload("Plan").
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Order("current_period_start DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}
