// Package db - Capacity day store.
// The reserve increment is a single upsert statement, so SQLite
// serializes concurrent reservations of the same machine/day; two
// racing reservations both land instead of one clobbering the other.
package db

import (
	"context"
	"database/sql"
	"time"

	shoperrors "shopquote/internal/errors"

	"shopquote/core/types"
)

// dayLayout is the day column format
const dayLayout = "2006-01-02"

// CapacityStore is the SQLite implementation of capacity.DayStore
type CapacityStore struct {
	conn *sql.DB
}

// NewCapacityStore wraps an open database
func NewCapacityStore(conn *sql.DB) *CapacityStore {
	return &CapacityStore{conn: conn}
}

// Days returns existing records for a machine between from and to inclusive
func (s *CapacityStore) Days(ctx context.Context, machineID string, from, to time.Time) ([]types.CapacityDay, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT machine_id, day, minutes_available, minutes_reserved
		FROM capacity_days
		WHERE machine_id = ? AND day BETWEEN ? AND ?
		ORDER BY day`,
		machineID, from.UTC().Format(dayLayout), to.UTC().Format(dayLayout))
	if err != nil {
		return nil, shoperrors.Storage("query capacity days", err)
	}
	defer rows.Close()

	var out []types.CapacityDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	if err := rows.Err(); err != nil {
		return nil, shoperrors.Storage("iterate capacity days", err)
	}
	return out, nil
}

// ReserveMinutes atomically increments minutes_reserved for one
// machine/day, creating the record with defaultAvailable if absent
func (s *CapacityStore) ReserveMinutes(ctx context.Context, machineID string, day time.Time, minutes, defaultAvailable float64) (types.CapacityDay, error) {
	row := s.conn.QueryRowContext(ctx, `
		INSERT INTO capacity_days (machine_id, day, minutes_available, minutes_reserved)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (machine_id, day) DO UPDATE
			SET minutes_reserved = minutes_reserved + excluded.minutes_reserved
		RETURNING machine_id, day, minutes_available, minutes_reserved`,
		machineID, day.UTC().Format(dayLayout), defaultAvailable, minutes)

	rec, err := scanDay(row)
	if err != nil {
		return types.CapacityDay{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(r rowScanner) (types.CapacityDay, error) {
	var rec types.CapacityDay
	var dayStr string
	if err := r.Scan(&rec.MachineID, &dayStr, &rec.MinutesAvailable, &rec.MinutesReserved); err != nil {
		return types.CapacityDay{}, shoperrors.Storage("scan capacity day", err)
	}
	day, err := time.ParseInLocation(dayLayout, dayStr, time.UTC)
	if err != nil {
		return types.CapacityDay{}, shoperrors.Storage("parse capacity day", err)
	}
	rec.Day = day
	return rec, nil
}
