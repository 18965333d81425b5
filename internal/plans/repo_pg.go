package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const planColumns = `id, request_id, targets, completed, catalog_version, length_terms, credits, candidate_count, plans, created_at`

// Create inserts a new record.
func (r *PGRepo) Create(ctx context.Context, rec PlanRecord) error {
	const query = `
INSERT INTO plan_records (` + planColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	targets, err := json.Marshal(nonNil(rec.Targets))
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}
	completed, err := json.Marshal(nonNil(rec.Completed))
	if err != nil {
		return fmt.Errorf("marshal completed: %w", err)
	}
	plans, err := json.Marshal(rec.Plans)
	if err != nil {
		return fmt.Errorf("marshal plans: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.RequestID,
		targets,
		completed,
		rec.CatalogVersion,
		rec.Length,
		rec.Credits,
		rec.CandidateCount,
		plans,
		rec.CreatedAt,
	)
	return err
}

// Get fetches a record by ID.
func (r *PGRepo) Get(ctx context.Context, id string) (PlanRecord, error) {
	const query = `
SELECT ` + planColumns + `
FROM plan_records
WHERE id = $1
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlanRecord{}, ErrNotFound
		}
		return PlanRecord{}, err
	}
	return rec, nil
}

// List returns records newest first, honoring limit/offset. A limit of zero
// returns every record.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]PlanRecord, error) {
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + planColumns + `
FROM plan_records
ORDER BY created_at DESC, id DESC
OFFSET $1`
	args := []any{offset}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PlanRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (PlanRecord, error) {
	var rec PlanRecord
	var targets, completed, plans []byte
	if err := row.Scan(
		&rec.ID,
		&rec.RequestID,
		&targets,
		&completed,
		&rec.CatalogVersion,
		&rec.Length,
		&rec.Credits,
		&rec.CandidateCount,
		&plans,
		&rec.CreatedAt,
	); err != nil {
		return PlanRecord{}, err
	}
	if err := json.Unmarshal(targets, &rec.Targets); err != nil {
		return PlanRecord{}, fmt.Errorf("decode targets: %w", err)
	}
	if err := json.Unmarshal(completed, &rec.Completed); err != nil {
		return PlanRecord{}, fmt.Errorf("decode completed: %w", err)
	}
	if err := json.Unmarshal(plans, &rec.Plans); err != nil {
		return PlanRecord{}, fmt.Errorf("decode plans: %w", err)
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
