package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/api/handlers"
	"github.com/playpool/billiard/internal/cache"
	"github.com/playpool/billiard/internal/config"
	"github.com/playpool/billiard/internal/middleware"
	"github.com/playpool/billiard/internal/trajectory"
	"github.com/playpool/billiard/internal/ws"
	"go.uber.org/zap"
)

const (
	ScopeTablesWrite = "tables:write"
	ScopeRunsWrite   = "runs:write"
)

// Deps are the collaborators the routes are wired to. Stores may be nil, in
// which case the persistence routes are not registered.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Cache     *cache.Cache
	Hub       *ws.Hub
	Publisher handlers.RunPublisher
	Tables    handlers.TableStore
	Runs      handlers.RunStore
	Clients   handlers.ClientAuthenticator
	Checks    []handlers.Check
}

// LimitsFrom derives request limits from configuration.
func LimitsFrom(cfg *config.Config) trajectory.Limits {
	return trajectory.Limits{
		MaxSteps:         cfg.MaxStepsLimit,
		DefaultEpsilon:   cfg.DefaultEpsilon,
		StrictTables:     cfg.StrictTables,
		ClosureTolerance: cfg.ClosureTolerance,
	}
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg, log := d.Config, d.Log
	limits := LimitsFrom(cfg)

	router.Use(middleware.Recovery(log), middleware.RequestLogger(log), middleware.CORS(cfg, log))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store")
			c.Next()
		})
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Checks...))

		v1.POST("/simulate", handlers.Simulate(d.Cache, limits, log))
		v1.POST("/simulate/batch", handlers.SimulateBatch(d.Cache, limits, log))
		v1.POST("/tables/validate", handlers.ValidateTable(cfg.ClosureTolerance, log))

		v1.GET("/demos", handlers.ListDemos)
		v1.GET("/demos/:name", handlers.GetDemo(log))

		if d.Hub != nil {
			v1.GET("/ws", middleware.WebSocketOrigin(cfg), handlers.TrajectoryWebSocket(d.Hub))
		}

		if d.Clients != nil {
			ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
			v1.POST("/auth/token", handlers.IssueToken(d.Clients, cfg.JWTSecret, ttl, log))
		}

		if d.Tables != nil && d.Runs != nil {
			tables := v1.Group("/tables")
			{
				tables.GET("", handlers.ListTables(d.Tables, log))
				tables.GET("/:name", handlers.GetTable(d.Tables, log))
				tables.GET("/:name/runs", handlers.ListRuns(d.Runs, log))
				tables.PUT("/:name",
					middleware.RequireToken(cfg.JWTSecret, ScopeTablesWrite),
					handlers.PutTable(d.Tables, d.Cache, limits, log))
				tables.DELETE("/:name",
					middleware.RequireToken(cfg.JWTSecret, ScopeTablesWrite),
					handlers.DeleteTable(d.Tables, d.Cache, log))
				tables.POST("/:name/simulate",
					middleware.RequireToken(cfg.JWTSecret, ScopeRunsWrite),
					handlers.SimulateStoredTable(d.Tables, d.Runs, d.Publisher, limits, log))
			}

			runs := v1.Group("/runs")
			{
				runs.GET("/:id", handlers.GetRun(d.Runs, log))
				runs.GET("/:id/image.png", handlers.RunImage(d.Runs, d.Tables, log))
			}
		}
	}
}
