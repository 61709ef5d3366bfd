package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop/internal/storage"
)

const selectMachine = `SELECT id, name, category, station_type, daily_minutes, is_active FROM production_machines`

func scanMachine(sc scanner) (storage.Machine, error) {
	var m storage.Machine
	err := sc.Scan(&m.ID, &m.Name, &m.Category, &m.StationType, &m.DailyMinutes, &m.IsActive)
	return m, err
}

func (s *Storage) ListMachines(ctx context.Context, activeOnly bool) ([]storage.Machine, error) {
	const op = "storage.sqlstore.ListMachines"

	query := selectMachine
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	machines := []storage.Machine{}
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		machines = append(machines, m)
	}

	return machines, rows.Err()
}

func (s *Storage) GetMachine(ctx context.Context, id int64) (storage.Machine, error) {
	const op = "storage.sqlstore.GetMachine"

	m, err := scanMachine(s.db.QueryRowContext(ctx, selectMachine+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Machine{}, fmt.Errorf("%s: id %d: %w", op, id, storage.ErrMachineNotFound)
	}
	if err != nil {
		return storage.Machine{}, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

// SaveMachines - id 0 вставляется, остальные обновляются.
func (s *Storage) SaveMachines(ctx context.Context, machines []storage.Machine) error {
	const op = "storage.sqlstore.SaveMachines"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO production_machines (name, category, station_type, daily_minutes, is_active) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer insert.Close()

	update, err := tx.PrepareContext(ctx,
		`UPDATE production_machines SET name = ?, category = ?, station_type = ?, daily_minutes = ?, is_active = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%s: prepare update: %w", op, err)
	}
	defer update.Close()

	for _, m := range machines {
		if m.ID == 0 {
			if _, err := insert.ExecContext(ctx, m.Name, m.Category, m.StationType, m.DailyMinutes, m.IsActive); err != nil {
				return fmt.Errorf("%s: insert %s: %w", op, m.Name, mapErr(err))
			}
			continue
		}

		res, err := update.ExecContext(ctx, m.Name, m.Category, m.StationType, m.DailyMinutes, m.IsActive, m.ID)
		if err != nil {
			return fmt.Errorf("%s: update %s: %w", op, m.Name, mapErr(err))
		}
		if err := mustAffect(res, storage.ErrMachineNotFound); err != nil {
			return fmt.Errorf("%s: id %d: %w", op, m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
