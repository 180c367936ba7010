package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/playpool/billiard/internal/geometry"
	"github.com/playpool/billiard/internal/models"
)

// Tables persists named table specs.
type Tables struct {
	db *sqlx.DB
}

func NewTables(db *sqlx.DB) *Tables {
	return &Tables{db: db}
}

const tableColumns = `id, name, description, spec, components, perimeter, created_at, updated_at`

func (s *Tables) List(ctx context.Context) ([]models.TableRecord, error) {
	var out []models.TableRecord
	err := s.db.SelectContext(ctx, &out, `SELECT `+tableColumns+` FROM billiard_tables ORDER BY name`)
	return out, err
}

func (s *Tables) Get(ctx context.Context, name string) (*models.TableRecord, error) {
	var rec models.TableRecord
	err := s.db.GetContext(ctx, &rec, `SELECT `+tableColumns+` FROM billiard_tables WHERE name=$1`, name)
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// Upsert stores spec under name. The caller passes the already built table so
// summary columns match what will be simulated.
func (s *Tables) Upsert(ctx context.Context, name, description string, spec geometry.TableSpec, table *geometry.Table) (*models.TableRecord, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode table spec: %w", err)
	}

	var rec models.TableRecord
	err = s.db.GetContext(ctx, &rec, `
		INSERT INTO billiard_tables (name, description, spec, components, perimeter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			spec = EXCLUDED.spec,
			components = EXCLUDED.components,
			perimeter = EXCLUDED.perimeter,
			updated_at = NOW()
		RETURNING `+tableColumns,
		name, sql.NullString{String: description, Valid: description != ""},
		types.JSONText(raw), table.ComponentCount(), Perimeter(table))
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Tables) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM billiard_tables WHERE name=$1`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecodeSpec parses the stored spec column.
func DecodeSpec(rec *models.TableRecord) (geometry.TableSpec, error) {
	var spec geometry.TableSpec
	if err := json.Unmarshal(rec.Spec, &spec); err != nil {
		return geometry.TableSpec{}, fmt.Errorf("table %q: decode spec: %w", rec.Name, err)
	}
	return spec, nil
}

// Perimeter is the summed length of every component.
func Perimeter(table *geometry.Table) float64 {
	var total float64
	for _, c := range table.Components() {
		total += c.Length()
	}
	return total
}
