package handler

import (
	"errors"
	"net/http"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/list"
	"github.com/furnishd/staging-service/internal/list/dto"
	"github.com/furnishd/staging-service/internal/reservation"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ListHandler struct {
	uc     list.UseCase
	logger logger.ZapLogger
}

func NewListHandler(uc list.UseCase, log logger.ZapLogger) *ListHandler {
	return &ListHandler{
		uc:     uc,
		logger: log,
	}
}

// respondError maps domain errors onto HTTP statuses. Validation failures
// carry the offending entity id; generic errors are never dressed up as
// validation failures.
func respondError(c *gin.Context, err error) {
	var vErr *reservation.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     vErr.Error(),
			"code":      string(vErr.Code),
			"entity_id": vErr.EntityID,
		})
	case errors.Is(err, reservation.ErrCreationFailed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, docstore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ListHandler) CreatePullList(c *gin.Context) {
	var input dto.CreatePullListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.uc.CreatePullList(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *ListHandler) GetList(c *gin.Context) {
	l, err := h.uc.GetList(c.Request.Context(), c.Param("listId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListHandler) ListRooms(c *gin.Context) {
	rooms, err := h.uc.ListRooms(c.Request.Context(), c.Param("listId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *ListHandler) BeginInstall(c *gin.Context) {
	if err := h.uc.BeginInstall(c.Request.Context(), c.Param("listId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListHandler) RevertToPlanning(c *gin.Context) {
	if err := h.uc.RevertToPlanning(c.Request.Context(), c.Param("listId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListHandler) ValidatePullList(c *gin.Context) {
	if err := h.uc.ValidatePullList(c.Request.Context(), c.Param("listId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *ListHandler) CreateInstalledList(c *gin.Context) {
	listID := c.Param("listId")
	installedID, err := h.uc.CreateInstalledList(c.Request.Context(), listID)
	if err != nil {
		h.logger.Error("install failed", zap.String("list_id", listID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"installed_list_id": installedID})
}

func (h *ListHandler) SetUnstaged(c *gin.Context) {
	if err := h.uc.SetUnstaged(c.Request.Context(), c.Param("listId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListHandler) CopyToPull(c *gin.Context) {
	l, err := h.uc.CopyToPull(c.Request.Context(), c.Param("listId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}
