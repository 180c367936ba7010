package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/cache"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/middleware"
	"github.com/playpool/billiard/internal/models"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/trajectory"
	"github.com/playpool/billiard/internal/ws"
	"go.uber.org/zap"
)

var tableName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

type PutTableRequest struct {
	Description string             `json:"description"`
	Table       geometry.TableSpec `json:"table"`
}

// StoredSimulateRequest is a simulate request against a stored table.
type StoredSimulateRequest struct {
	InitialState trajectory.StateDTO `json:"initial_state"`
	MaxSteps     int                 `json:"max_steps"`
	Epsilon      *float64            `json:"epsilon,omitempty"`
}

type TableSummary struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Components  int     `json:"components"`
	Perimeter   float64 `json:"perimeter"`
}

func summarize(rec models.TableRecord) TableSummary {
	return TableSummary{
		Name:        rec.Name,
		Description: rec.Description.String,
		Components:  rec.Components,
		Perimeter:   rec.Perimeter,
	}
}

func ListTables(tables TableStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := tables.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		out := make([]TableSummary, 0, len(recs))
		for _, rec := range recs {
			out = append(out, summarize(rec))
		}
		c.JSON(http.StatusOK, gin.H{"tables": out})
	}
}

func GetTable(tables TableStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := tables.Get(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"summary": summarize(*rec),
			"table":   rec.Spec,
		})
	}
}

// PutTable creates or replaces a stored table. The table spec must build and, in
// strict mode, close.
func PutTable(tables TableStore, rc *cache.Cache, limits trajectory.Limits, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if !tableName.MatchString(name) {
			respondError(c, log, trajectory.BadRequest("table name %q must match %s", name, tableName))
			return
		}

		var req PutTableRequest
		if !bindJSON(c, log, &req) {
			return
		}
		table, err := trajectory.BuildTable(req.Table, limits)
		if err != nil {
			respondError(c, log, err)
			return
		}

		rec, err := tables.Upsert(c.Request.Context(), name, req.Description, req.Table, table)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if err := rc.Invalidate(c.Request.Context()); err != nil {
			log.Warn("[CACHE] invalidate failed", zap.Error(err))
		}

		log.Info("[TABLES] table stored",
			zap.String("table", name),
			zap.String("client", c.GetString(middleware.ClientIDKey)))
		c.JSON(http.StatusOK, summarize(*rec))
	}
}

func DeleteTable(tables TableStore, rc *cache.Cache, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if err := tables.Delete(c.Request.Context(), name); err != nil {
			respondError(c, log, err)
			return
		}
		if err := rc.Invalidate(c.Request.Context()); err != nil {
			log.Warn("[CACHE] invalidate failed", zap.Error(err))
		}
		log.Info("[TABLES] table deleted", zap.String("table", name))
		c.Status(http.StatusNoContent)
	}
}

// SimulateStoredTable runs a trajectory on a stored table, persists it as a
// run and announces it to watchers.
func SimulateStoredTable(tables TableStore, runs RunStore, pub RunPublisher, limits trajectory.Limits, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		name := c.Param("name")

		var body StoredSimulateRequest
		if !bindJSON(c, log, &body) {
			return
		}

		rec, err := tables.Get(ctx, name)
		if err != nil {
			respondError(c, log, err)
			return
		}
		spec, err := store.DecodeSpec(rec)
		if err != nil {
			respondError(c, log, err)
			return
		}

		p, err := trajectory.Prepare(trajectory.SimulateRequest{
			Table:        spec,
			InitialState: body.InitialState,
			MaxSteps:     body.MaxSteps,
			Epsilon:      body.Epsilon,
		}, limits)
		if err != nil {
			respondError(c, log, err)
			return
		}
		resp, err := trajectory.Simulate(p)
		if err != nil {
			respondError(c, log, err)
			return
		}

		run, err := newRun(name, p, resp)
		if err != nil {
			respondError(c, log, trajectory.Internal(err))
			return
		}
		if id := c.GetString(middleware.ClientIDKey); id != "" {
			run.ClientID.String, run.ClientID.Valid = id, true
		}
		if err := runs.Create(ctx, run); err != nil {
			respondError(c, log, err)
			return
		}

		ev := ws.RunEvent{RunID: run.ID, Table: name, Count: resp.Count, Termination: resp.Termination}
		if err := pub.PublishRun(ctx, ev); err != nil {
			log.Warn("[WS] publish run event failed", zap.String("run", run.ID), zap.Error(err))
		}

		log.Info("[SIM] stored run completed",
			zap.String("table", name),
			zap.String("run", run.ID),
			zap.Int("collisions", resp.Count))
		c.Header("X-Run-ID", run.ID)
		c.JSON(http.StatusCreated, gin.H{
			"run_id":      run.ID,
			"collisions":  resp.Collisions,
			"termination": resp.Termination,
			"count":       resp.Count,
		})
	}
}
