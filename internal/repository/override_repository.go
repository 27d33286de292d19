package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
)

// OverrideRepository handles persistence for per-day shift overrides.
// Uniqueness per (staff, date) is enforced here: writes upsert against the
// primary key, so read paths never see duplicate-dated overrides.
type OverrideRepository interface {
	Upsert(ctx context.Context, override *domain.ShiftOverride) error
	DeleteByDate(ctx context.Context, staffID, date string) error
	ListByStaff(ctx context.Context, staffID string) ([]domain.ShiftOverride, error)
	ListAll(ctx context.Context) ([]domain.ShiftOverride, error)
}

type overrideRepository struct {
	pool *pgxpool.Pool
}

// NewOverrideRepository instantiates the repository.
func NewOverrideRepository(pool *pgxpool.Pool) OverrideRepository {
	return &overrideRepository{pool: pool}
}

const overrideColumns = `staff_id, to_char(override_date, 'YYYY-MM-DD'),
        start_time, end_time, is_day_off, shift_type, created_at, updated_at`

func (r *overrideRepository) Upsert(ctx context.Context, override *domain.ShiftOverride) error {
	const query = `
        INSERT INTO shift_overrides (staff_id, override_date, start_time, end_time, is_day_off, shift_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (staff_id, override_date) DO UPDATE
        SET start_time=EXCLUDED.start_time,
            end_time=EXCLUDED.end_time,
            is_day_off=EXCLUDED.is_day_off,
            shift_type=EXCLUDED.shift_type,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		override.StaffID,
		override.Date,
		override.StartTime,
		override.EndTime,
		override.IsDayOff,
		override.ShiftType,
	).Scan(&override.CreatedAt, &override.UpdatedAt)
}

func (r *overrideRepository) DeleteByDate(ctx context.Context, staffID, date string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM shift_overrides WHERE staff_id=$1 AND override_date=$2`, staffID, date)
	return err
}

func (r *overrideRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.ShiftOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM shift_overrides WHERE staff_id=$1 ORDER BY override_date ASC`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverrides(rows)
}

func (r *overrideRepository) ListAll(ctx context.Context) ([]domain.ShiftOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM shift_overrides ORDER BY staff_id, override_date ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverrides(rows)
}

func collectOverrides(rows pgx.Rows) ([]domain.ShiftOverride, error) {
	var result []domain.ShiftOverride
	for rows.Next() {
		var ov domain.ShiftOverride
		if err := rows.Scan(
			&ov.StaffID,
			&ov.Date,
			&ov.StartTime,
			&ov.EndTime,
			&ov.IsDayOff,
			&ov.ShiftType,
			&ov.CreatedAt,
			&ov.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ov)
	}
	return result, rows.Err()
}
