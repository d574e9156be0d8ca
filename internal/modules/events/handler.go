package events

import (
	"log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes expects rg to authenticate through the token query parameter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.Stream)
}

func (h *Handler) Stream(c *gin.Context) {
	staffID := c.GetInt64("user_id")
	if err := h.hub.ServeWS(c.Writer, c.Request, staffID); err != nil {
		// the upgrader already wrote the HTTP error
		log.Printf("ws_upgrade_failed staff_id=%d err=%v", staffID, err)
	}
}
