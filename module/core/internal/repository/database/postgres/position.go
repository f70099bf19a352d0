package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/repository/database"
)

var _ database.PositionRepository = (*PositionRepo)(nil)

const schema = `CREATE TABLE IF NOT EXISTS ship_positions (
	id              BIGSERIAL PRIMARY KEY,
	latitude        DOUBLE PRECISION NOT NULL,
	longitude       DOUBLE PRECISION NOT NULL,
	heading         DOUBLE PRECISION NOT NULL DEFAULT 0,
	display_heading DOUBLE PRECISION NOT NULL DEFAULT 0,
	speed           DOUBLE PRECISION NOT NULL DEFAULT 0,
	satellites      TEXT NOT NULL DEFAULT 'N/A',
	captured_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ship_positions_captured_at_idx ON ship_positions (captured_at DESC)`

const selectColumns = `SELECT latitude, longitude, heading, display_heading, speed, satellites, captured_at FROM ship_positions`

type PositionRepo struct {
	db *sql.DB
}

func NewPositionRepo(db *sql.DB) *PositionRepo {
	return &PositionRepo{db: db}
}

func (r *PositionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create ship_positions: %w", err)
	}
	return nil
}

func (r *PositionRepo) Insert(ctx context.Context, rec *domain.PositionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ship_positions (latitude, longitude, heading, display_heading, speed, satellites, captured_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Latitude, rec.Longitude, rec.Heading, rec.DisplayHeading, rec.Speed, rec.Satellites, rec.Timestamp,
	)
	return err
}

func (r *PositionRepo) Latest(ctx context.Context) (*domain.PositionRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` ORDER BY captured_at DESC LIMIT 1`)

	var rec domain.PositionRecord
	if err := scanPosition(row, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// History returns up to limit records, newest first.
func (r *PositionRepo) History(ctx context.Context, limit int) ([]domain.PositionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY captured_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := []domain.PositionRecord{}
	for rows.Next() {
		var rec domain.PositionRecord
		if err := scanPosition(rows, &rec); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(s scanner, rec *domain.PositionRecord) error {
	return s.Scan(&rec.Latitude, &rec.Longitude, &rec.Heading, &rec.DisplayHeading, &rec.Speed, &rec.Satellites, &rec.Timestamp)
}
