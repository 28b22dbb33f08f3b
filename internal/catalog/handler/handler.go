package handler

import (
	"errors"
	"net/http"

	"github.com/furnishd/staging-service/internal/catalog"
	"github.com/furnishd/staging-service/internal/catalog/dto"
	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	uc               catalog.UseCase
	defaultWarehouse string
	logger           logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, defaultWarehouse string, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:               uc,
		defaultWarehouse: defaultWarehouse,
		logger:           log,
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *CatalogHandler) CreateModel(c *gin.Context) {
	var input dto.CreateModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.WarehouseID == "" {
		input.WarehouseID = h.defaultWarehouse
	}

	m, err := h.uc.CreateModel(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *CatalogHandler) GetModel(c *gin.Context) {
	m, err := h.uc.GetModel(c.Request.Context(), c.Param("modelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	var filters dto.ModelFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	models, count, err := h.uc.ListModels(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models, "total": count})
}

type addItemsInput struct {
	Count       int    `json:"count" binding:"required,min=1"`
	WarehouseID string `json:"warehouse_id"`
}

func (h *CatalogHandler) AddItems(c *gin.Context) {
	var input addItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.WarehouseID == "" {
		input.WarehouseID = h.defaultWarehouse
	}

	ids, err := h.uc.AddItems(c.Request.Context(), c.Param("modelId"), input.Count, input.WarehouseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item_ids": ids})
}

func (h *CatalogHandler) RemoveItem(c *gin.Context) {
	if err := h.uc.RemoveItem(c.Request.Context(), c.Param("modelId"), c.Param("itemId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteModel(c *gin.Context) {
	if err := h.uc.DeleteModel(c.Request.Context(), c.Param("modelId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.uc.GetItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type attentionInput struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *CatalogHandler) SetItemAttention(c *gin.Context) {
	var input attentionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.uc.SetItemAttention(c.Request.Context(), c.Param("itemId"), input.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ClearItemAttention(c *gin.Context) {
	if err := h.uc.ClearItemAttention(c.Request.Context(), c.Param("itemId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
