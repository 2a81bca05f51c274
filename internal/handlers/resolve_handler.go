package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"allocation-backend/internal/events"
	"allocation-backend/internal/resolver"
)

// AllocationResolver is the engine surface the HTTP layer consumes
type AllocationResolver interface {
	Resolve(ctx context.Context, identity string, sink resolver.ProgressSink) (*resolver.ResolvedAllocation, error)
}

// ResolveHandler serves allocation resolution requests
type ResolveHandler struct {
	engine    AllocationResolver
	publisher *events.Publisher
}

// NewResolveHandler creates a new handler. publisher may be nil.
func NewResolveHandler(engine AllocationResolver, publisher *events.Publisher) *ResolveHandler {
	return &ResolveHandler{
		engine:    engine,
		publisher: publisher,
	}
}

// ResolveAllocationHandler runs one resolution
// GET /api/allocation/resolve?identity=<address-or-name>
func (h *ResolveHandler) ResolveAllocationHandler(c *gin.Context) {
	identity := c.Query("identity")
	if identity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing identity parameter"})
		return
	}

	requestID := uuid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"identity":   identity,
	})
	log.Info("📋 Allocation resolution request")

	sink := resolver.ProgressFunc(func(stage string) {
		log.WithField("stage", stage).Debug("resolution progress")
	})

	result, err := h.engine.Resolve(c.Request.Context(), identity, sink)
	if err != nil {
		log.WithError(err).Warn("resolution failed")
		status, label := classifyError(err)
		c.JSON(status, gin.H{
			"error":      label,
			"details":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.publisher.PublishResolution(identity, result)

	log.WithFields(logrus.Fields{
		"found":  result.Found,
		"amount": result.Amount,
	}).Info("✅ Resolution completed")
	c.JSON(http.StatusOK, result)
}

// classifyError maps the engine's error taxonomy onto HTTP statuses.
// Inputs the user can correct map to 4xx; upstream failures map to 502.
func classifyError(err error) (int, string) {
	var invalidFormat *resolver.InvalidAddressFormatError
	var nameNotFound *resolver.NameNotFoundError
	var nameTransport *resolver.NameResolutionTransportError
	var chainRead *resolver.ChainReadError

	switch {
	case errors.As(err, &invalidFormat):
		return http.StatusBadRequest, "invalid_address_format"
	case errors.As(err, &nameNotFound):
		return http.StatusNotFound, "name_not_found"
	case errors.As(err, &nameTransport):
		return http.StatusBadGateway, "name_resolution_transport_error"
	case errors.As(err, &chainRead):
		return http.StatusBadGateway, "chain_read_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
