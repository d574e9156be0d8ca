package guest

import (
	"errors"
	"net/http"

	"novastay/internal/domain"
	"novastay/internal/pkg/params"
	"novastay/internal/pkg/response"
	"novastay/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	guests := rg.Group("/guests")
	{
		guests.GET("", h.ListGuests)
		guests.POST("", h.CreateGuest)
		guests.GET("/:id", h.GetGuest)
		guests.PUT("/:id", h.UpdateGuest)
		guests.DELETE("/:id", h.DeleteGuest)
	}
}

func (h *Handler) ListGuests(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	guests, err := h.service.ListGuests(c.Request.Context(), repository.GuestFilter{
		Name:   q.Name,
		Phone:  q.Phone,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]GuestResponse, 0, len(guests))
	for i := range guests {
		out = append(out, toResponse(&guests[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"guests": out})
}

func (h *Handler) GetGuest(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid guest ID")
		return
	}

	g, err := h.service.GetGuest(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"guest": toResponse(g)})
}

func (h *Handler) CreateGuest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	g, err := req.toDomain()
	if err != nil {
		h.fail(c, err)
		return
	}

	g, err = h.service.CreateGuest(c.Request.Context(), g)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"guest": toResponse(g)})
}

func (h *Handler) UpdateGuest(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid guest ID")
		return
	}

	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	g, err := req.toDomain()
	if err != nil {
		h.fail(c, err)
		return
	}

	g, err = h.service.UpdateGuest(c.Request.Context(), id, g)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"guest": toResponse(g)})
}

func (h *Handler) DeleteGuest(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid guest ID")
		return
	}

	if err := h.service.DeleteGuest(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Validation(c, err)
	case errors.Is(err, ErrGuestNotFound):
		response.NotFound(c, "Guest not found")
	case errors.Is(err, ErrGuestHasReservations):
		response.Error(c, http.StatusConflict, "HAS_RESERVATIONS", "Guest still has reservations")
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
