package handlers

import (
	"net/http"
	"runtime"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/cache"
	"github.com/playpool/billiard/internal/dynamics"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/trajectory"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const maxBatch = 32

type cacheKey struct {
	Table    geometry.TableSpec     `json:"table"`
	Initial  dynamics.BoundaryState `json:"initial"`
	MaxSteps int                    `json:"max_steps"`
	Epsilon  float64                `json:"epsilon"`
}

// runCached validates req and runs it through the result cache.
func runCached(c *gin.Context, rc *cache.Cache, limits trajectory.Limits, req trajectory.SimulateRequest) (trajectory.SimulateResponse, bool, error) {
	p, err := trajectory.Prepare(req, limits)
	if err != nil {
		return trajectory.SimulateResponse{}, false, err
	}
	key, err := cache.Key(cacheKey{Table: req.Table, Initial: p.Initial, MaxSteps: p.MaxSteps, Epsilon: p.Epsilon})
	if err != nil {
		return trajectory.SimulateResponse{}, false, trajectory.Internal(err)
	}
	return cache.Fetch(c.Request.Context(), rc, key, func() (trajectory.SimulateResponse, error) {
		return trajectory.Simulate(p)
	})
}

// Simulate handles POST /simulate.
func Simulate(rc *cache.Cache, limits trajectory.Limits, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trajectory.SimulateRequest
		if !bindJSON(c, log, &req) {
			return
		}

		resp, hit, err := runCached(c, rc, limits, req)
		if err != nil {
			respondError(c, log, err)
			return
		}

		if hit {
			c.Header("X-Cache", "hit")
		} else {
			c.Header("X-Cache", "miss")
		}
		log.Info("[SIM] simulation completed",
			zap.Int("max_steps", req.MaxSteps),
			zap.Int("collisions", resp.Count),
			zap.String("termination", string(resp.Termination)),
			zap.Bool("cached", hit))
		c.JSON(http.StatusOK, resp)
	}
}

type BatchRequest struct {
	Requests []trajectory.SimulateRequest `json:"requests"`
}

type BatchItem struct {
	Index  int                          `json:"index"`
	Result *trajectory.SimulateResponse `json:"result,omitempty"`
	Error  *trajectory.Body             `json:"error,omitempty"`
}

// SimulateBatch handles POST /simulate/batch: independent requests run in
// parallel and each reports its own result or error.
func SimulateBatch(rc *cache.Cache, limits trajectory.Limits, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BatchRequest
		if !bindJSON(c, log, &req) {
			return
		}
		if len(req.Requests) == 0 || len(req.Requests) > maxBatch {
			respondError(c, log, trajectory.BadRequest("requests must hold between 1 and %d items", maxBatch))
			return
		}

		p := pool.NewWithResults[BatchItem]().WithMaxGoroutines(runtime.GOMAXPROCS(0))
		for i, r := range req.Requests {
			p.Go(func() BatchItem {
				resp, _, err := runCached(c, rc, limits, r)
				if err != nil {
					body := trajectory.AsError(err).Body()
					return BatchItem{Index: i, Error: &body}
				}
				return BatchItem{Index: i, Result: &resp}
			})
		}
		items := p.Wait()
		sort.Slice(items, func(a, b int) bool { return items[a].Index < items[b].Index })

		log.Info("[SIM] batch completed", zap.Int("requests", len(items)))
		c.JSON(http.StatusOK, gin.H{"results": items})
	}
}

// ValidateTable handles POST /tables/validate.
func ValidateTable(tolerance float64, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var spec geometry.TableSpec
		if !bindJSON(c, log, &spec) {
			return
		}
		report, err := trajectory.Validate(spec, tolerance)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
