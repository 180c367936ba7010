package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/ws"
)

// TrajectoryWebSocket upgrades GET /ws onto the hub.
func TrajectoryWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return hub.Handle
}
