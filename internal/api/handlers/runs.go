package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/models"
	"github.com/playpool/billiard/internal/render"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/trajectory"
	"go.uber.org/zap"
)

const maxImageSide = 2048

func newRun(tableName string, p trajectory.Params, resp trajectory.SimulateResponse) (*models.TrajectoryRun, error) {
	raw, err := json.Marshal(resp.Collisions)
	if err != nil {
		return nil, err
	}
	return &models.TrajectoryRun{
		TableName:      tableName,
		ComponentIndex: p.Initial.ComponentIndex,
		S:              p.Initial.S,
		Theta:          p.Initial.Theta,
		MaxSteps:       p.MaxSteps,
		Epsilon:        p.Epsilon,
		Termination:    string(resp.Termination),
		CollisionCount: resp.Count,
		Collisions:     raw,
	}, nil
}

func GetRun(runs RunStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := runs.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// ListRuns handles GET /tables/:name/runs.
func ListRuns(runs RunStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		out, err := runs.ListByTable(c.Request.Context(), c.Param("name"), limit)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if out == nil {
			out = []models.TrajectoryRun{}
		}
		c.JSON(http.StatusOK, gin.H{"runs": out})
	}
}

// RunImage renders a stored run over its table as a PNG. The path starts at
// the run's initial boundary point.
func RunImage(runs RunStore, tables TableStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		run, err := runs.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		rec, err := tables.Get(ctx, run.TableName)
		if err != nil {
			respondError(c, log, err)
			return
		}
		spec, err := store.DecodeSpec(rec)
		if err != nil {
			respondError(c, log, trajectory.Internal(err))
			return
		}
		table, err := spec.Build()
		if err != nil {
			respondError(c, log, trajectory.SimulationFailed(err))
			return
		}

		var collisions []trajectory.CollisionDTO
		if err := json.Unmarshal(run.Collisions, &collisions); err != nil {
			respondError(c, log, trajectory.Internal(err))
			return
		}

		path := make([]geometry.Vec2, 0, len(collisions)+1)
		if start, err := table.Component(run.ComponentIndex); err == nil {
			p, _ := start.PointAndTangentAt(run.S)
			path = append(path, p)
		}
		for _, col := range collisions {
			path = append(path, geometry.NewVec2(col.X, col.Y))
		}

		opts := render.DefaultOptions()
		opts.Width = clampSide(c.Query("width"), opts.Width)
		opts.Height = clampSide(c.Query("height"), opts.Height)

		var buf bytes.Buffer
		if err := render.WritePNG(&buf, table, path, opts); err != nil {
			respondError(c, log, trajectory.Internal(err))
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func clampSide(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return min(v, maxImageSide)
}
