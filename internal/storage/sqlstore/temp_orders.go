package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop/internal/storage"
)

const orderColumns = `order_number, doc_type, item_code, item_name, quantity, delivery_date, plate_count,
	designer, customer, handler, issuer, status, log_msg, error_reason`

const insertTempOrder = `INSERT INTO temp_orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func orderArgs(o storage.OrderRecord) []any {
	return []any{
		o.OrderNumber, o.DocType, o.ItemCode, o.ItemName, o.Quantity, o.DeliveryDate, o.PlateCount,
		o.Designer, o.Customer, o.Handler, o.Issuer, string(o.Status), o.LogMsg, o.ErrorReason,
	}
}

func orderDest(o *storage.OrderRecord) []any {
	return []any{
		&o.OrderNumber, &o.DocType, &o.ItemCode, &o.ItemName, &o.Quantity, &o.DeliveryDate, &o.PlateCount,
		&o.Designer, &o.Customer, &o.Handler, &o.Issuer, &o.Status, &o.LogMsg, &o.ErrorReason,
	}
}

func scanTempOrder(sc scanner) (storage.OrderRecord, error) {
	var o storage.OrderRecord
	err := sc.Scan(append([]any{&o.ID}, orderDest(&o)...)...)
	return o, err
}

// ReplaceTempOrders заменяет содержимое временной зоны новым пакетом импорта.
func (s *Storage) ReplaceTempOrders(ctx context.Context, orders []storage.OrderRecord) error {
	const op = "storage.sqlstore.ReplaceTempOrders"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM temp_orders`); err != nil {
		return fmt.Errorf("%s: clear: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertTempOrder)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, orderArgs(o)...); err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, o.OrderNumber, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) ListTempOrders(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.ListTempOrders"

	rows, err := s.db.QueryContext(ctx, `SELECT id, `+orderColumns+` FROM temp_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []storage.OrderRecord{}
	for rows.Next() {
		o, err := scanTempOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (s *Storage) GetTempOrder(ctx context.Context, id int64) (storage.OrderRecord, error) {
	const op = "storage.sqlstore.GetTempOrder"

	row := s.db.QueryRowContext(ctx, `SELECT id, `+orderColumns+` FROM temp_orders WHERE id = ?`, id)
	o, err := scanTempOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.OrderRecord{}, fmt.Errorf("%s: id %d: %w", op, id, storage.ErrOrderNotFound)
	}
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Storage) UpdateTempOrder(ctx context.Context, o storage.OrderRecord) error {
	const op = "storage.sqlstore.UpdateTempOrder"

	stmt := `UPDATE temp_orders SET order_number = ?, doc_type = ?, item_code = ?, item_name = ?, quantity = ?,
		delivery_date = ?, plate_count = ?, designer = ?, customer = ?, handler = ?, issuer = ?, status = ?,
		log_msg = ?, error_reason = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt, append(orderArgs(o), o.ID)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOrderNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, o.ID, err)
	}

	return nil
}

func (s *Storage) DeleteTempOrder(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteTempOrder"

	res, err := s.db.ExecContext(ctx, `DELETE FROM temp_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOrderNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

// CommitTempOrders переносит строки в daily_orders. Вставка идёт раньше
// удаления: при сбое заказ задвоится, но не потеряется.
func (s *Storage) CommitTempOrders(ctx context.Context, orders []storage.OrderRecord) error {
	const op = "storage.sqlstore.CommitTempOrders"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx, insertDailyOrder)
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer insert.Close()

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		if _, err := insert.ExecContext(ctx, orderArgs(o)...); err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, o.OrderNumber, err)
		}
		ids = append(ids, o.ID)
	}

	if len(ids) > 0 {
		query := `DELETE FROM temp_orders WHERE id IN (` + placeholders(len(ids)) + `)`
		if _, err := tx.ExecContext(ctx, query, int64Args(ids)...); err != nil {
			return fmt.Errorf("%s: delete temp: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// ReturnOrderToTemp переносит исправленный заказ обратно во временную зону.
func (s *Storage) ReturnOrderToTemp(ctx context.Context, dailyID int64, o storage.OrderRecord) error {
	const op = "storage.sqlstore.ReturnOrderToTemp"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertTempOrder, orderArgs(o)...); err != nil {
		return fmt.Errorf("%s: insert temp: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM daily_orders WHERE id = ?`, dailyID)
	if err != nil {
		return fmt.Errorf("%s: delete daily: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOrderNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, dailyID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
