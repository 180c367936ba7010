package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/tables"
	"github.com/playpool/billiard/internal/trajectory"
	"go.uber.org/zap"
)

func ListDemos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"demos": tables.Demos()})
}

func GetDemo(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := tables.LookupDemo(c.Param("name"))
		if !ok {
			respondError(c, log, trajectory.NotFound("demo %q not found", c.Param("name")))
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
