package handlers

import (
	"net/http"

	"servicehub/internal/adapter/http/dto/response"
	"servicehub/internal/adapter/http/middleware"
	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"
	"servicehub/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler exposes the provider's own wallet. Reads only: every balance
// mutation goes through the booking lifecycle or the payment orchestrator.
type WalletHandler struct {
	providers interfaces.IProviderRepository
	logger    *zap.Logger
}

func NewWalletHandler(providers interfaces.IProviderRepository, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{providers: providers, logger: logger}
}

// Get returns the authenticated provider's activation state and balances.
func (h *WalletHandler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}
	if actor.Role != entities.RoleProvider {
		appErr := pkg.NewDomainErrorSimple("FORBIDDEN", "Only providers have a wallet", http.StatusForbidden)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	p, err := h.providers.Get(c.Request.Context(), actor.ID)
	if err != nil {
		h.logger.Error("wallet read failed", zap.String("provider_id", actor.ID), zap.Error(err))
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if p.ID == "" {
		appErr := pkg.NewDomainErrorSimple("PROVIDER_NOT_FOUND", "Provider not found", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProvider(p))
}
