package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"EstatePulse/internal/domain/models"
)

// SnapshotSchema returns the idempotent schema statements for the snapshot
// table in the given database.
func SnapshotSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.indicator_snapshots (
			id String,
			taken_at DateTime,
			source String,
			policy_rate Nullable(Float64),
			prime_rate Nullable(Float64),
			mortgage_rate Nullable(Float64),
			inflation_rate Nullable(Float64),
			unemployment_rate Nullable(Float64),
			gdp_growth Nullable(Float64)
		) ENGINE = MergeTree ORDER BY taken_at`, database),
	}
}

// ClickHouseSnapshotStore persists indicator snapshots in ClickHouse.
type ClickHouseSnapshotStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSnapshotStore creates a store writing to database.indicator_snapshots.
func NewClickHouseSnapshotStore(db *sql.DB, database string) *ClickHouseSnapshotStore {
	return &ClickHouseSnapshotStore{
		db:    db,
		table: database + ".indicator_snapshots",
	}
}

// Insert writes one snapshot row.
func (s *ClickHouseSnapshotStore) Insert(ctx context.Context, snap *models.IndicatorSnapshot) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, taken_at, source, policy_rate, prime_rate, mortgage_rate, inflation_rate, unemployment_rate, gdp_growth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	set := snap.Indicators
	_, err := s.db.ExecContext(ctx, query,
		snap.ID,
		snap.TakenAt,
		snap.Source,
		set.PolicyRate,
		set.PrimeRate,
		set.MortgageRate,
		set.InflationRate,
		set.UnemploymentRate,
		set.GDPGrowth,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// History returns snapshots within [from, to], newest first, capped at limit.
func (s *ClickHouseSnapshotStore) History(ctx context.Context, from, to time.Time, limit int) ([]models.IndicatorSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT id, taken_at, source,
		policy_rate, prime_rate, mortgage_rate, inflation_rate, unemployment_rate, gdp_growth
		FROM %s WHERE taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at DESC LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var snaps []models.IndicatorSnapshot
	for rows.Next() {
		var snap models.IndicatorSnapshot
		set := &snap.Indicators
		if err := rows.Scan(
			&snap.ID,
			&snap.TakenAt,
			&snap.Source,
			&set.PolicyRate,
			&set.PrimeRate,
			&set.MortgageRate,
			&set.InflationRate,
			&set.UnemploymentRate,
			&set.GDPGrowth,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return snaps, nil
}

// Health checks the underlying connection.
func (s *ClickHouseSnapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
