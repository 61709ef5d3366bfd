package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop/internal/storage"
)

const operationColumns = `source_order_id, order_number, doc_type, item_code, item_name, quantity, plate_count,
	delivery_date, designer, customer, handler, issuer, sequence, station, op_name, basis_text, std_time,
	total_time_min, assigned_section, scheduled_date, production_machine_id`

const insertOperation = `INSERT INTO station_time_summary (` + operationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectOperation = `SELECT id, ` + operationColumns + ` FROM station_time_summary`

func operationArgs(c storage.ConvertedOperation) []any {
	return []any{
		c.SourceOrderID, c.OrderNumber, c.DocType, c.ItemCode, c.ItemName, c.Quantity, c.PlateCount,
		c.DeliveryDate, c.Designer, c.Customer, c.Handler, c.Issuer, c.Sequence, c.Station, c.OpName,
		c.BasisText, c.StdTime, c.TotalTimeMin, c.AssignedSection, c.ScheduledDate, c.ProductionMachineID,
	}
}

func scanOperation(sc scanner) (storage.ConvertedOperation, error) {
	var (
		c       storage.ConvertedOperation
		section sql.NullString
		date    sql.NullString
		machine sql.NullInt64
	)

	err := sc.Scan(&c.ID, &c.SourceOrderID, &c.OrderNumber, &c.DocType, &c.ItemCode, &c.ItemName, &c.Quantity,
		&c.PlateCount, &c.DeliveryDate, &c.Designer, &c.Customer, &c.Handler, &c.Issuer, &c.Sequence, &c.Station,
		&c.OpName, &c.BasisText, &c.StdTime, &c.TotalTimeMin, &section, &date, &machine)
	if err != nil {
		return storage.ConvertedOperation{}, err
	}

	if section.Valid {
		c.AssignedSection = &section.String
	}
	if date.Valid {
		c.ScheduledDate = &date.String
	}
	if machine.Valid {
		c.ProductionMachineID = &machine.Int64
	}

	return c, nil
}

func (s *Storage) queryOperations(ctx context.Context, op, where, order string, args ...any) ([]storage.ConvertedOperation, error) {
	query := selectOperation
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY ` + order

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ops := []storage.ConvertedOperation{}
	for rows.Next() {
		c, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ops = append(ops, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ops, nil
}

// ReplaceConvertedOperations удаляет строки заказа и вставляет новые в одной транзакции.
func (s *Storage) ReplaceConvertedOperations(ctx context.Context, sourceOrderID int64, rows []storage.ConvertedOperation) error {
	const op = "storage.sqlstore.ReplaceConvertedOperations"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM station_time_summary WHERE source_order_id = ?`, sourceOrderID); err != nil {
		return fmt.Errorf("%s: delete old rows: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertOperation)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		r.SourceOrderID = sourceOrderID
		if _, err := stmt.ExecContext(ctx, operationArgs(r)...); err != nil {
			return fmt.Errorf("%s: insert %s/%d: %w", op, r.OpName, r.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteConvertedOperations(ctx context.Context, sourceOrderID int64) error {
	const op = "storage.sqlstore.DeleteConvertedOperations"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM station_time_summary WHERE source_order_id = ?`, sourceOrderID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListOperationsByOrder(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error) {
	const op = "storage.sqlstore.ListOperationsByOrder"

	return s.queryOperations(ctx, op, `source_order_id = ?`, `sequence, id`, sourceOrderID)
}

func (s *Storage) GetConvertedOperation(ctx context.Context, id int64) (storage.ConvertedOperation, error) {
	const op = "storage.sqlstore.GetConvertedOperation"

	c, err := scanOperation(s.db.QueryRowContext(ctx, selectOperation+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ConvertedOperation{}, fmt.Errorf("%s: id %d: %w", op, id, storage.ErrOperationNotFound)
	}
	if err != nil {
		return storage.ConvertedOperation{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Storage) InsertConvertedOperation(ctx context.Context, row storage.ConvertedOperation) (int64, error) {
	const op = "storage.sqlstore.InsertConvertedOperation"

	res, err := s.db.ExecContext(ctx, insertOperation, operationArgs(row)...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

// UpdateSequences записывает новые номера последовательности одной транзакцией.
func (s *Storage) UpdateSequences(ctx context.Context, updates []storage.SequenceUpdate) error {
	const op = "storage.sqlstore.UpdateSequences"

	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE station_time_summary SET sequence = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, u := range updates {
		res, err := stmt.ExecContext(ctx, u.Sequence, u.ID)
		if err != nil {
			return fmt.Errorf("%s: id %d: %w", op, u.ID, err)
		}
		if err := mustAffect(res, storage.ErrOperationNotFound); err != nil {
			return fmt.Errorf("%s: id %d: %w", op, u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteConvertedOperation(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteConvertedOperation"

	res, err := s.db.ExecContext(ctx, `DELETE FROM station_time_summary WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOperationNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

// ListUnassignedOperations - операции без участка, по сроку сдачи.
func (s *Storage) ListUnassignedOperations(ctx context.Context) ([]storage.ConvertedOperation, error) {
	const op = "storage.sqlstore.ListUnassignedOperations"

	return s.queryOperations(ctx, op, `assigned_section IS NULL`, `delivery_date, order_number, sequence, id`)
}

// ListSectionOperations - операции участка, ещё не поставленные на станок.
func (s *Storage) ListSectionOperations(ctx context.Context, section string) ([]storage.ConvertedOperation, error) {
	const op = "storage.sqlstore.ListSectionOperations"

	return s.queryOperations(ctx, op,
		`assigned_section = ? AND (scheduled_date IS NULL OR production_machine_id IS NULL)`,
		`delivery_date, order_number, sequence, id`, section)
}

// AssignSection - nil в section снимает участок.
func (s *Storage) AssignSection(ctx context.Context, ids []int64, section *string) (int64, error) {
	const op = "storage.sqlstore.AssignSection"

	if len(ids) == 0 {
		return 0, nil
	}

	query := `UPDATE station_time_summary SET assigned_section = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	res, err := s.db.ExecContext(ctx, query, append([]any{section}, int64Args(ids)...)...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// SetSchedule ставит операцию на станок и день, nil снимает с плана.
func (s *Storage) SetSchedule(ctx context.Context, id int64, date *string, machineID *int64) error {
	const op = "storage.sqlstore.SetSchedule"

	res, err := s.db.ExecContext(ctx,
		`UPDATE station_time_summary SET scheduled_date = ?, production_machine_id = ? WHERE id = ?`,
		date, machineID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOperationNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

// ListScheduledOperations - операции на плане в окне дат, по станку при необходимости.
func (s *Storage) ListScheduledOperations(ctx context.Context, filter storage.ScheduleFilter) ([]storage.ConvertedOperation, error) {
	const op = "storage.sqlstore.ListScheduledOperations"

	where := `scheduled_date IS NOT NULL AND production_machine_id IS NOT NULL AND scheduled_date >= ? AND scheduled_date <= ?`
	args := []any{filter.From, filter.To}
	if filter.MachineID != nil {
		where += ` AND production_machine_id = ?`
		args = append(args, *filter.MachineID)
	}

	return s.queryOperations(ctx, op, where, `scheduled_date, production_machine_id, source_order_id, sequence, id`, args...)
}
