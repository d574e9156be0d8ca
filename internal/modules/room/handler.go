package room

import (
	"errors"
	"net/http"

	"novastay/internal/domain"
	"novastay/internal/pkg/params"
	"novastay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the room routes. Writes run behind the admin handlers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin ...gin.HandlerFunc) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
		rooms.GET("/:id/availability", h.GetAvailability)
	}

	writes := rooms.Group("", admin...)
	{
		writes.POST("", h.CreateRoom)
		writes.PUT("/:id", h.UpdateRoom)
		writes.DELETE("/:id", h.DeleteRoom)
	}
}

func (h *Handler) ListRooms(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), q.toFilter())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	r, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": r})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	from, errFrom := params.Date(c.Query("from"))
	to, errTo := params.Date(c.Query("to"))
	if errFrom != nil || errTo != nil || from == nil || to == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to must be YYYY-MM-DD dates")
		return
	}

	a, err := h.service.GetRoomAvailability(c.Request.Context(), id, *from, *to)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.CreateRoom(c.Request.Context(), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": r})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.UpdateRoom(c.Request.Context(), id, req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": r})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Validation(c, err)
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be after from and span at most a year")
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(c, "Room not found")
	case errors.Is(err, ErrRoomExists):
		response.Error(c, http.StatusConflict, "ROOM_EXISTS", "Room number already exists")
	case errors.Is(err, ErrRoomHasReservations):
		response.Error(c, http.StatusConflict, "HAS_RESERVATIONS", "Room still has reservations")
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
