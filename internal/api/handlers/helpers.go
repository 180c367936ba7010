package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/models"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/trajectory"
	"github.com/playpool/billiard/internal/ws"
	"go.uber.org/zap"
)

// TableStore is the persistence the table handlers need.
type TableStore interface {
	List(ctx context.Context) ([]models.TableRecord, error)
	Get(ctx context.Context, name string) (*models.TableRecord, error)
	Upsert(ctx context.Context, name, description string, spec geometry.TableSpec, table *geometry.Table) (*models.TableRecord, error)
	Delete(ctx context.Context, name string) error
}

type RunStore interface {
	Create(ctx context.Context, run *models.TrajectoryRun) error
	Get(ctx context.Context, id string) (*models.TrajectoryRun, error)
	ListByTable(ctx context.Context, tableName string, limit int) ([]models.TrajectoryRun, error)
}

type ClientAuthenticator interface {
	Authenticate(ctx context.Context, clientID, secret string) (*models.APIClient, error)
}

type RunPublisher interface {
	PublishRun(ctx context.Context, ev ws.RunEvent) error
}

// respondError writes the JSON error envelope for err. Store lookups that
// miss become 404s.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if errors.Is(err, store.ErrNotFound) {
		err = trajectory.NotFound("%s not found", c.Request.URL.Path)
	}
	e := trajectory.AsError(err)
	if e.Code == trajectory.CodeInternal {
		log.Error("[API] internal error", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(e.Status(), e.Body())
}

func bindJSON(c *gin.Context, log *zap.Logger, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, log, trajectory.BadRequest("invalid request body: %v", err))
		return false
	}
	return true
}
