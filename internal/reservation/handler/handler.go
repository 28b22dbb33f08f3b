package handler

import (
	"errors"
	"net/http"

	"github.com/furnishd/staging-service/internal/auth"
	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/reservation"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	uc               reservation.UseCase
	defaultWarehouse string
	logger           logger.ZapLogger
}

func NewReservationHandler(uc reservation.UseCase, defaultWarehouse string, log logger.ZapLogger) *ReservationHandler {
	return &ReservationHandler{
		uc:               uc,
		defaultWarehouse: defaultWarehouse,
		logger:           log,
	}
}

type restoreItemInput struct {
	WarehouseID string `json:"warehouse_id"`
}

// RestoreItem unstages a single item from an installed list back into
// warehouse circulation.
func (h *ReservationHandler) RestoreItem(c *gin.Context) {
	var input restoreItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	warehouseID := input.WarehouseID
	if warehouseID == "" {
		warehouseID = h.defaultWarehouse
	}

	itemID := c.Param("itemId")
	if err := h.uc.RestoreItem(c.Request.Context(), itemID, warehouseID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("restored item to storage",
		zap.String("item_id", itemID),
		zap.String("warehouse_id", warehouseID),
		zap.String("user_id", auth.GetUserID(c.Request.Context())),
	)
	c.Status(http.StatusNoContent)
}
