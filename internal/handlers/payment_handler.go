package handlers

import (
	"errors"
	"log/slog"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/fawry"
	"github.com/coworkhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	secureKey      string
	verifyWebhook  bool
}

// NewPaymentHandler builds the FawryPay endpoints. When verifyWebhook is set,
// callbacks must carry a valid messageSignature.
func NewPaymentHandler(paymentService *services.PaymentService, secureKey string, verifyWebhook bool) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, secureKey: secureKey, verifyWebhook: verifyWebhook}
}

func paymentError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.PaymentErrorResponse{Error: message})
}

// Initiate handles POST /payments/fawry.
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}

	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return paymentError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.paymentService.Initiate(c.UserContext(), userID, &req)
	if err != nil {
		var gwErr *fawry.GatewayError
		switch {
		case errors.As(err, &gwErr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.PaymentErrorResponse{
				Error: gwErr.Error(),
				Code:  gwErr.Code,
			})
		case errors.Is(err, services.ErrInvalidMobile),
			errors.Is(err, services.ErrInvalidPaymentType),
			errors.Is(err, services.ErrPlanNotPurchasable),
			errors.Is(err, catalog.ErrPlanNotFound):
			return paymentError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, fawry.ErrNotConfigured):
			return paymentError(c, fiber.StatusInternalServerError, "Payment configuration error")
		default:
			slog.Error("payment initiation failed", "user_id", userID.String(), "error", err)
			return paymentError(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}
	return c.JSON(resp)
}

// Webhook handles the gateway's server notification. It is not behind JWT.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var n fawry.Notification
	if err := c.BodyParser(&n); err != nil {
		return paymentError(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}

	if h.verifyWebhook && !fawry.VerifyNotification(&n, h.secureKey) {
		slog.Warn("payment webhook signature mismatch", "merchant_ref_num", n.Ref())
		return paymentError(c, fiber.StatusUnauthorized, services.ErrInvalidWebhookSig.Error())
	}

	if err := h.paymentService.Confirm(c.UserContext(), &n); err != nil {
		if errors.Is(err, services.ErrMissingMerchantRef) {
			return paymentError(c, fiber.StatusBadRequest, err.Error())
		}
		return paymentError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(dto.WebhookAck{Success: true})
}

// Status handles GET /payments/status?merchantRefNum=. Members only see
// their own payments.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}

	ref := c.Query("merchantRefNum")
	if ref == "" {
		return paymentError(c, fiber.StatusBadRequest, "merchantRefNum is required")
	}

	payment, err := h.paymentService.GetStatus(c.UserContext(), ref)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return paymentError(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("payment status lookup failed", "merchant_ref_num", ref, "error", err)
		return paymentError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if payment.UserID != userID {
		return paymentError(c, fiber.StatusNotFound, services.ErrPaymentNotFound.Error())
	}
	return c.JSON(payment)
}

// CurrentSubscription returns the caller's active membership, or null.
func (h *PaymentHandler) CurrentSubscription(c *fiber.Ctx) error {
	userID, ok, err := callerID(c)
	if !ok {
		return err
	}
	sub, err := h.paymentService.ActiveSubscription(c.UserContext(), userID)
	if err != nil {
		slog.Error("subscription lookup failed", "user_id", userID.String(), "error", err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"subscription": sub})
}
