package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"subtrack/internal/service"
)

// SubscriptionHandler mantiene dependencias para endpoints de suscripciones.
type SubscriptionHandler struct {
	logger *zap.Logger
	subs   *service.SubscriptionService
}

// NewSubscriptionHandler crea una instancia de SubscriptionHandler.
func NewSubscriptionHandler(logger *zap.Logger, subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		logger: logger,
		subs:   subs,
	}
}

// AddSubscription maneja POST /add_subscription.
func (h *SubscriptionHandler) AddSubscription(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
		return
	}

	var input service.SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid add subscription request", zap.Error(err))
		respondError(c, http.StatusBadRequest, kindInvalidSubscription, "invalid request body")
		return
	}

	if err := h.subs.Add(c.Request.Context(), principal, input); err != nil {
		if errors.Is(err, service.ErrInvalidSubscription) {
			respondError(c, http.StatusBadRequest, kindInvalidSubscription, err.Error())
			return
		}
		h.logger.Error("add subscription failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, kindInternal, "could not add subscription")
		return
	}

	c.Status(http.StatusCreated)
}

// GetSubscriptions maneja GET /get_subscriptions.
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
		return
	}

	views, err := h.subs.List(c.Request.Context(), principal)
	if err != nil {
		h.logger.Error("list subscriptions failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, kindInternal, "could not list subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}

// EditSubscription maneja PUT /subscriptions/:id.
func (h *SubscriptionHandler) EditSubscription(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, kindInvalidSubscription, "invalid subscription id")
		return
	}

	var input service.SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid edit subscription request", zap.Error(err))
		respondError(c, http.StatusBadRequest, kindInvalidSubscription, "invalid request body")
		return
	}

	if err := h.subs.Edit(c.Request.Context(), principal, id, input); err != nil {
		h.respondSubscriptionError(c, err, "edit subscription failed")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteSubscription maneja DELETE /subscriptions/:id.
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, kindTokenMalformed, "missing token")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, kindInvalidSubscription, "invalid subscription id")
		return
	}

	if err := h.subs.Delete(c.Request.Context(), principal, id); err != nil {
		h.respondSubscriptionError(c, err, "delete subscription failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) respondSubscriptionError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidSubscription):
		respondError(c, http.StatusBadRequest, kindInvalidSubscription, err.Error())
	case errors.Is(err, service.ErrSubscriptionNotFound):
		respondError(c, http.StatusNotFound, kindNotFound, "subscription not found")
	case errors.Is(err, service.ErrNotOwner):
		respondError(c, http.StatusForbidden, kindForbidden, "subscription owned by another user")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondError(c, http.StatusInternalServerError, kindInternal, "could not complete operation")
	}
}
