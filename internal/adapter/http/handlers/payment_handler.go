package handlers

import (
	"errors"
	"net/http"

	"servicehub/internal/adapter/http/dto/request"
	"servicehub/internal/adapter/http/dto/response"
	"servicehub/internal/adapter/http/middleware"
	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase"
	"servicehub/internal/usecase/interfaces"
	"servicehub/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment orchestrator over HTTP.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
	logger  *zap.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{usecase: uc, logger: logger}
}

// Pay charges a booking total or the provider activation fee.
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c)
		return
	}

	p, err := h.usecase.Pay(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		h.fail(c, "pay", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// Webhook receives asynchronous gateway notifications. Unauthenticated route;
// unknown references and statuses are acknowledged so providers stop
// retrying.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req request.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c)
		return
	}

	if err := h.usecase.HandleWebhook(c.Request.Context(), req.ToEvent()); err != nil {
		h.fail(c, "webhook", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Withdraw pays out a provider's available balance.
func (h *PaymentHandler) Withdraw(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c)
		return
	}

	p, err := h.usecase.RequestWithdrawal(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		h.fail(c, "withdraw", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// Get returns one ledger entry by reference.
func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.usecase.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// ListByBooking returns every ledger entry tied to a booking.
func (h *PaymentHandler) ListByBooking(c *gin.Context) {
	payments, err := h.usecase.ListByBookingCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, "list-by-booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayments(payments))
}

func (h *PaymentHandler) fail(c *gin.Context, op string, err error) {
	appErr := mapPaymentError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("payment request failed", zap.String("op", op), zap.Error(err))
	} else {
		h.logger.Info("payment request rejected", zap.String("op", op), zap.Error(err))
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProviderNotFound):
		return pkg.NewDomainErrorSimple("PROVIDER_NOT_FOUND", "Provider not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Actor not permitted for this operation", http.StatusForbidden)
	case errors.Is(err, usecase.ErrInvalidPaymentInput), errors.Is(err, usecase.ErrUnsupportedMethod), errors.Is(err, entities.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrBookingAlreadyPaid):
		return pkg.NewDomainErrorSimple("BOOKING_ALREADY_PAID", "Booking already paid", http.StatusConflict)
	case errors.Is(err, entities.ErrInsufficientBalance):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_BALANCE", "Balance does not cover amount and fee", http.StatusConflict)
	case errors.Is(err, interfaces.ErrGatewayDeclined):
		return pkg.NewDomainErrorSimple("PAYMENT_DECLINED", "Payment declined by the provider", http.StatusPaymentRequired)
	case errors.Is(err, interfaces.ErrGatewayUnavailable):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable, try again", http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
