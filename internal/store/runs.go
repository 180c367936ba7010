package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiard/internal/models"
)

// Runs persists trajectory runs.
type Runs struct {
	db *sqlx.DB
}

func NewRuns(db *sqlx.DB) *Runs {
	return &Runs{db: db}
}

const runColumns = `id, table_name, component_index, s, theta, max_steps, epsilon,
	termination, collision_count, collisions, client_id, created_at`

// Create assigns run a fresh id and inserts it.
func (s *Runs) Create(ctx context.Context, run *models.TrajectoryRun) error {
	run.ID = uuid.NewString()
	return s.db.GetContext(ctx, &run.CreatedAt, `
		INSERT INTO trajectory_runs (id, table_name, component_index, s, theta, max_steps, epsilon,
			termination, collision_count, collisions, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at`,
		run.ID, run.TableName, run.ComponentIndex, run.S, run.Theta, run.MaxSteps, run.Epsilon,
		run.Termination, run.CollisionCount, run.Collisions, run.ClientID)
}

func (s *Runs) Get(ctx context.Context, id string) (*models.TrajectoryRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var run models.TrajectoryRun
	err := s.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM trajectory_runs WHERE id=$1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// ListByTable returns the most recent runs for a table without their
// collision payloads.
func (s *Runs) ListByTable(ctx context.Context, tableName string, limit int) ([]models.TrajectoryRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []models.TrajectoryRun
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, table_name, component_index, s, theta, max_steps, epsilon,
			termination, collision_count, '[]'::jsonb AS collisions, client_id, created_at
		FROM trajectory_runs
		WHERE table_name=$1
		ORDER BY created_at DESC
		LIMIT $2`, tableName, limit)
	return out, err
}

// DeleteOlderThan removes runs created before cutoff and reports how many went.
func (s *Runs) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trajectory_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
