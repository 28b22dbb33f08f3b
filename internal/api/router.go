package api

import (
	"github.com/furnishd/staging-service/internal/auth"
	catalogH "github.com/furnishd/staging-service/internal/catalog/handler"
	listH "github.com/furnishd/staging-service/internal/list/handler"
	reservationH "github.com/furnishd/staging-service/internal/reservation/handler"
	roomH "github.com/furnishd/staging-service/internal/room/handler"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	List        *listH.ListHandler
	Room        *roomH.RoomHandler
	Reservation *reservationH.ReservationHandler
	Catalog     *catalogH.CatalogHandler
}

func SetupRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Attribute requests to the acting staff member for audit logging.
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		}
		c.Next()
	})

	api := router.Group("/api/v1")
	{
		lists := api.Group("/lists")
		{
			lists.POST("", h.List.CreatePullList)
			lists.GET("/:listId", h.List.GetList)
			lists.GET("/:listId/rooms", h.List.ListRooms)
			lists.POST("/:listId/begin-install", h.List.BeginInstall)
			lists.POST("/:listId/revert", h.List.RevertToPlanning)
			lists.POST("/:listId/validate", h.List.ValidatePullList)
			lists.POST("/:listId/install", h.List.CreateInstalledList)
			lists.POST("/:listId/unstage", h.List.SetUnstaged)
			lists.POST("/:listId/copy-to-pull", h.List.CopyToPull)

			lists.POST("/:listId/rooms", h.Room.CreateRoom)
			lists.GET("/:listId/rooms/:roomId", h.Room.GetRoom)
			lists.POST("/:listId/rooms/:roomId/items", h.Room.AddItem)
			lists.POST("/:listId/rooms/:roomId/items/:itemId/select", h.Room.SelectItem)
			lists.POST("/:listId/rooms/:roomId/items/:itemId/deselect", h.Room.DeselectItem)
			lists.POST("/:listId/rooms/:roomId/items/:itemId/move", h.Room.MoveItem)
			lists.DELETE("/:listId/rooms/:roomId/items/:itemId", h.Room.RemoveItem)
		}

		models := api.Group("/models")
		{
			models.POST("", h.Catalog.CreateModel)
			models.GET("", h.Catalog.ListModels)
			models.GET("/:modelId", h.Catalog.GetModel)
			models.DELETE("/:modelId", h.Catalog.DeleteModel)
			models.POST("/:modelId/items", h.Catalog.AddItems)
			models.DELETE("/:modelId/items/:itemId", h.Catalog.RemoveItem)
		}

		items := api.Group("/items")
		{
			items.GET("/:itemId", h.Catalog.GetItem)
			items.POST("/:itemId/restore", h.Reservation.RestoreItem)
			items.POST("/:itemId/attention", h.Catalog.SetItemAttention)
			items.DELETE("/:itemId/attention", h.Catalog.ClearItemAttention)
		}
	}

	return router
}
