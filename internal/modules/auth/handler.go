package auth

import (
	"errors"
	"net/http"

	"novastay/internal/domain"
	"novastay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages the HTTP side of staff authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusTooManyRequests, "ACCOUNT_LOCKED", "Too many failed attempts, try again later")
		default:
			_ = c.Error(err)
			response.Internal(c)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(res.ExpiresIn.Seconds()),
		"staff":        toPublic(res.Staff),
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	staffID := c.GetInt64("user_id")
	if staffID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	staff, err := h.service.GetStaff(c.Request.Context(), staffID)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			response.NotFound(c, "Staff member not found")
			return
		}
		_ = c.Error(err)
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"staff": toPublic(staff)})
}

func toPublic(s *domain.Staff) StaffPublic {
	return StaffPublic{ID: s.ID, Role: string(s.Role), Name: s.Name, Email: s.Email}
}
