package roomhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchatgo/internal/chat"
)

type Handler struct {
	registry *chat.Registry
}

func New(registry *chat.Registry) *Handler { return &Handler{registry: registry} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", h.list)
	r.GET("/rooms/:name", h.info)
}

// @Summary		List rooms
// @Description	Returns every room created so far with its current member count.
// @Tags			Rooms
// @Success		200	{array}	RoomSummary
// @Router			/rooms [get]
func (h *Handler) list(c *gin.Context) {
	rooms := h.registry.Snapshot()
	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomSummary{Name: room.Name(), Members: room.Len()})
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get room details
// @Description	Returns the display names of the members currently in one room.
// @Tags			Rooms
// @Param			name	path		string	true	"Room name"	default(lobby)
// @Success		200		{object}	RoomDetail
// @Failure		404		{object}	ErrorResponse
// @Router			/rooms/{name} [get]
func (h *Handler) info(c *gin.Context) {
	room, ok := h.registry.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	c.JSON(http.StatusOK, RoomDetail{Name: room.Name(), Members: room.MemberNames()})
}
