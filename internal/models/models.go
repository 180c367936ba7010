package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// TableRecord is a named, stored billiard table.
type TableRecord struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"-"`
	Spec        types.JSONText `db:"spec" json:"table"`
	Components  int            `db:"components" json:"components"`
	Perimeter   float64        `db:"perimeter" json:"perimeter"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// TrajectoryRun is a persisted simulation against a stored table.
type TrajectoryRun struct {
	ID             string         `db:"id" json:"id"`
	TableName      string         `db:"table_name" json:"table_name"`
	ComponentIndex int            `db:"component_index" json:"component_index"`
	S              float64        `db:"s" json:"s"`
	Theta          float64        `db:"theta" json:"theta"`
	MaxSteps       int            `db:"max_steps" json:"max_steps"`
	Epsilon        float64        `db:"epsilon" json:"epsilon"`
	Termination    string         `db:"termination" json:"termination"`
	CollisionCount int            `db:"collision_count" json:"count"`
	Collisions     types.JSONText `db:"collisions" json:"collisions"`
	ClientID       sql.NullString `db:"client_id" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// APIClient is a machine client allowed to mint bearer tokens.
type APIClient struct {
	ClientID   string         `db:"client_id" json:"client_id"`
	Name       string         `db:"name" json:"name"`
	SecretHash string         `db:"secret_hash" json:"-"`
	Scopes     pq.StringArray `db:"scopes" json:"scopes"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	LastUsedAt sql.NullTime   `db:"last_used_at" json:"last_used_at,omitempty"`
}

// ScopeAll grants every scope.
const ScopeAll = "*"

// ScopeGranted reports whether scopes include scope or ScopeAll.
func ScopeGranted(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope || s == ScopeAll {
			return true
		}
	}
	return false
}
