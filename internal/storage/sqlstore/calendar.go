package sqlstore

import (
	"context"
	"fmt"

	"printshop/internal/storage"
)

func (s *Storage) ListCalendar(ctx context.Context, from, to string) ([]storage.CalendarOverride, error) {
	const op = "storage.sqlstore.ListCalendar"

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, is_holiday, note FROM factory_calendar WHERE date >= ? AND date <= ? ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	days := []storage.CalendarOverride{}
	for rows.Next() {
		var d storage.CalendarOverride
		if err := rows.Scan(&d.Date, &d.IsHoliday, &d.Note); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// SaveCalendar перезаписывает переданные дни.
func (s *Storage) SaveCalendar(ctx context.Context, days []storage.CalendarOverride) error {
	const op = "storage.sqlstore.SaveCalendar"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	del, err := tx.PrepareContext(ctx, `DELETE FROM factory_calendar WHERE date = ?`)
	if err != nil {
		return fmt.Errorf("%s: prepare delete: %w", op, err)
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx, `INSERT INTO factory_calendar (date, is_holiday, note) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer ins.Close()

	for _, d := range days {
		if _, err := del.ExecContext(ctx, d.Date); err != nil {
			return fmt.Errorf("%s: delete %s: %w", op, d.Date, err)
		}
		if _, err := ins.ExecContext(ctx, d.Date, d.IsHoliday, d.Note); err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, d.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
