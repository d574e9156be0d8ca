package reservation

import (
	"context"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.ListReservations)
		reservations.POST("", h.CreateReservation)
		reservations.GET("/quote", h.Quote)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id", h.UpdateReservation)
		reservations.DELETE("/:id", h.DeleteReservation)
		reservations.POST("/:id/check-in", h.CheckIn)
		reservations.POST("/:id/check-out", h.CheckOut)
		reservations.POST("/:id/cancel", h.Cancel)
		reservations.POST("/:id/pay", h.MarkPaid)
	}
}

func (h *Handler) ListReservations(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	f, err := q.toFilter()
	if err != nil {
		response.Validation(c, err)
		return
	}

	list, err := h.service.ListReservations(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": out})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	r, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(r)})
}

func (h *Handler) Quote(c *gin.Context) {
	var q QuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "room_id, check_in and check_out are required")
		return
	}
	in, errIn := params.Date(q.CheckIn)
	out, errOut := params.Date(q.CheckOut)
	if errIn != nil || errOut != nil || in == nil || out == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out must be YYYY-MM-DD dates")
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), q.RoomID, *in, *out, q.DiscountRate)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := req.toDomain(nil)
	if err != nil {
		response.Validation(c, err)
		return
	}

	created, err := h.service.CreateReservation(c.Request.Context(), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": toResponse(created)})
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	existing, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	r, err := req.toDomain(existing)
	if err != nil {
		response.Validation(c, err)
		return
	}

	updated, err := h.service.UpdateReservation(c.Request.Context(), id, r)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(updated)})
}

func (h *Handler) DeleteReservation(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReservation(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.runTransition(c, h.service.CheckIn)
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.runTransition(c, h.service.CheckOut)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.runTransition(c, h.service.Cancel)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "payment_method is required")
		return
	}

	r, err := h.service.MarkPaid(c.Request.Context(), id, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(r)})
}

func (h *Handler) runTransition(c *gin.Context, fn func(ctx context.Context, id int64) (*domain.Reservation, error)) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	r, err := fn(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(r)})
}

func reservationID(c *gin.Context) (int64, bool) {
	id, err := params.ID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Validation(c, err)
	case errors.Is(err, ErrReservationNotFound):
		response.NotFound(c, "Reservation not found")
	case errors.Is(err, ErrGuestNotFound):
		response.NotFound(c, "Guest not found")
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(c, "Room not found")
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "ROOM_CONFLICT", conflict.Error(), gin.H{
			"reservation_id":         conflict.Existing.ID,
			"check_in_booking_date":  conflict.Existing.CheckInBookingDate.Format(domain.DateLayout),
			"check_out_booking_date": conflict.Existing.CheckOutBookingDate.Format(domain.DateLayout),
			"status":                 conflict.Existing.Status,
		})
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", "Room is not available for booking")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrReactivation):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrGuestCheckedIn):
		response.Error(c, http.StatusConflict, "GUEST_CHECKED_IN", "Cannot delete a reservation while the guest is checked in")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Reservation is already paid")
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
