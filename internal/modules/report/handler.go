package report

import (
	"errors"
	"net/http"
	"time"

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
	reports := rg.Group("/reports")
	{
		reports.GET("/occupancy", h.Occupancy)
		reports.GET("/revenue", h.Revenue)
	}
}

// Occupancy defaults to today when date is omitted.
func (h *Handler) Occupancy(c *gin.Context) {
	day, err := params.Date(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be a YYYY-MM-DD date")
		return
	}
	if day == nil {
		now := time.Now().UTC()
		day = &now
	}

	rep, err := h.service.Occupancy(c.Request.Context(), *day)
	if err != nil {
		_ = c.Error(err)
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) Revenue(c *gin.Context) {
	from, errFrom := params.Date(c.Query("from"))
	to, errTo := params.Date(c.Query("to"))
	if errFrom != nil || errTo != nil || from == nil || to == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to must be YYYY-MM-DD dates")
		return
	}

	rep, err := h.service.Revenue(c.Request.Context(), *from, *to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be after from and span at most a year")
			return
		}
		_ = c.Error(err)
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, rep)
}
