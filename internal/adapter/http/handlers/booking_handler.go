package handlers

import (
	"errors"
	"net/http"

	"servicehub/internal/adapter/http/dto/request"
	"servicehub/internal/adapter/http/dto/response"
	"servicehub/internal/adapter/http/middleware"
	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase"
	"servicehub/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
	logger  *zap.Logger
}

func NewBookingHandler(uc usecase.IBookingUseCase, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{usecase: uc, logger: logger}
}

// Create opens a new booking in pending.
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.CreateBooking(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromBooking(b))
}

// Get returns one booking by code.
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.usecase.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Accept is the provider taking a pending booking.
func (h *BookingHandler) Accept(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.AcceptBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.Accept(c.Request.Context(), actor, c.Param("code"), req.ToCommand())
	if err != nil {
		h.fail(c, "accept", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Reject is the provider declining a pending booking.
func (h *BookingHandler) Reject(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.Reject(c.Request.Context(), actor, c.Param("code"), req.Reason)
	if err != nil {
		h.fail(c, "reject", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Start marks work as begun on an accepted booking.
func (h *BookingHandler) Start(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	b, err := h.usecase.Start(c.Request.Context(), actor, c.Param("code"))
	if err != nil {
		h.fail(c, "start", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Complete marks work as finished and opens the confirmation window.
func (h *BookingHandler) Complete(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.Complete(c.Request.Context(), actor, c.Param("code"), req.WorkEvidence)
	if err != nil {
		h.fail(c, "complete", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Confirm is the client approving completed work, releasing earnings.
func (h *BookingHandler) Confirm(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	b, err := h.usecase.Confirm(c.Request.Context(), actor, c.Param("code"), entities.ConfirmationManual)
	if err != nil {
		h.fail(c, "confirm", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Cancel ends a booking before work starts.
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.Cancel(c.Request.Context(), actor, c.Param("code"), req.Reason)
	if err != nil {
		h.fail(c, "cancel", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// Dispute freezes a completed or in-progress booking for review.
func (h *BookingHandler) Dispute(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.DisputeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.Dispute(c.Request.Context(), actor, c.Param("code"), req.ToCommand())
	if err != nil {
		h.fail(c, "dispute", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// ResolveDispute is the admin decision on a disputed booking.
func (h *BookingHandler) ResolveDispute(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req request.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondInvalidRequest(c)
		return
	}

	b, err := h.usecase.ResolveDispute(c.Request.Context(), actor, c.Param("code"), req.ToCommand())
	if err != nil {
		h.fail(c, "resolve-dispute", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

func (h *BookingHandler) fail(c *gin.Context, op string, err error) {
	appErr := mapBookingError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("booking request failed",
			zap.String("op", op),
			zap.String("code", c.Param("code")),
			zap.Error(err),
		)
	} else {
		h.logger.Info("booking request rejected",
			zap.String("op", op),
			zap.String("code", c.Param("code")),
			zap.Error(err),
		)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Actor not permitted for this transition", http.StatusForbidden)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Transition not allowed from the current status", http.StatusConflict)
	case errors.Is(err, usecase.ErrAlreadyConfirmed):
		return pkg.NewDomainErrorSimple("ALREADY_CONFIRMED", "Booking already confirmed", http.StatusConflict)
	case errors.Is(err, usecase.ErrAlreadyDisputed):
		return pkg.NewDomainErrorSimple("ALREADY_DISPUTED", "Booking already disputed", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidBookingInput):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func respondInvalidRequest(c *gin.Context) {
	appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func respondUnauthenticated(c *gin.Context) {
	appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid credentials", http.StatusUnauthorized)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
