package handler

import (
	"errors"
	"net/http"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/room"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	uc     room.UseCase
	logger logger.ZapLogger
}

func NewRoomHandler(uc room.UseCase, log logger.ZapLogger) *RoomHandler {
	return &RoomHandler{
		uc:     uc,
		logger: log,
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

type createRoomInput struct {
	RoomName string `json:"room_name" binding:"required"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input createRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.uc.CreateEmptyRoom(c.Request.Context(), c.Param("listId"), input.RoomName)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "a room with that name already exists"})
		return
	}
	c.Status(http.StatusCreated)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	r, err := h.uc.GetRoom(c.Request.Context(), c.Param("listId"), c.Param("roomId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type addItemInput struct {
	ItemID string `json:"item_id" binding:"required"`
}

func (h *RoomHandler) AddItem(c *gin.Context) {
	var input addItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.uc.AddItemToRoom(c.Request.Context(), c.Param("listId"), c.Param("roomId"), input.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusConflict, gin.H{"error": "item already in room"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) SelectItem(c *gin.Context) {
	err := h.uc.SelectItem(c.Request.Context(), c.Param("listId"), c.Param("roomId"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) DeselectItem(c *gin.Context) {
	err := h.uc.DeselectItem(c.Request.Context(), c.Param("listId"), c.Param("roomId"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moveItemInput struct {
	ToRoomID string `json:"to_room_id" binding:"required"`
}

func (h *RoomHandler) MoveItem(c *gin.Context) {
	var input moveItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	moved, err := h.uc.MoveItemToRoom(c.Request.Context(),
		c.Param("listId"), c.Param("itemId"), c.Param("roomId"), input.ToRoomID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !moved {
		c.JSON(http.StatusConflict, gin.H{"error": "item not in source room or already in target room"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) RemoveItem(c *gin.Context) {
	removed, err := h.uc.RemoveItemFromRoom(c.Request.Context(), c.Param("listId"), c.Param("roomId"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not in room"})
		return
	}
	c.Status(http.StatusNoContent)
}
