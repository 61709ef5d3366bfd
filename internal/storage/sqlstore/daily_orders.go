package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"printshop/internal/storage"
)

const insertDailyOrder = `INSERT INTO daily_orders (` + orderColumns + `, conversion_note) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '')`

const selectDailyOrder = `SELECT id, ` + orderColumns + `, is_converted, conversion_status, conversion_note FROM daily_orders`

func scanDailyOrder(sc scanner) (storage.OrderRecord, error) {
	var o storage.OrderRecord
	dest := append([]any{&o.ID}, orderDest(&o)...)
	dest = append(dest, &o.IsConverted, &o.ConversionStatus, &o.ConversionNote)
	err := sc.Scan(dest...)
	return o, err
}

func (s *Storage) queryDailyOrders(ctx context.Context, op, where string, args ...any) ([]storage.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectDailyOrder+` WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []storage.OrderRecord{}
	for rows.Next() {
		o, err := scanDailyOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// FetchDailyOrdersByNumbers - сохранённые заказы с данными номерами, для поиска дублей.
func (s *Storage) FetchDailyOrdersByNumbers(ctx context.Context, numbers []string) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.FetchDailyOrdersByNumbers"

	if len(numbers) == 0 {
		return []storage.OrderRecord{}, nil
	}

	args := make([]any, len(numbers))
	for i, n := range numbers {
		args[i] = n
	}

	return s.queryDailyOrders(ctx, op, `order_number IN (`+placeholders(len(numbers))+`)`, args...)
}

func (s *Storage) GetDailyOrder(ctx context.Context, id int64) (storage.OrderRecord, error) {
	const op = "storage.sqlstore.GetDailyOrder"

	o, err := scanDailyOrder(s.db.QueryRowContext(ctx, selectDailyOrder+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.OrderRecord{}, fmt.Errorf("%s: id %d: %w", op, id, storage.ErrOrderNotFound)
	}
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Storage) GetDailyOrders(ctx context.Context, ids []int64) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.GetDailyOrders"

	if len(ids) == 0 {
		return []storage.OrderRecord{}, nil
	}

	return s.queryDailyOrders(ctx, op, `id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
}

// ListConvertibleOrders - кандидаты на конвертацию.
func (s *Storage) ListConvertibleOrders(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.ListConvertibleOrders"

	return s.queryDailyOrders(ctx, op, `is_converted = 0 AND conversion_status <> ? AND status <> ?`,
		storage.ConversionFailed, string(storage.StatusError))
}

// ListErrorOrders - очередь исправления ошибок проверки.
func (s *Storage) ListErrorOrders(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.ListErrorOrders"

	return s.queryDailyOrders(ctx, op, `status = ?`, string(storage.StatusError))
}

// ListFailedConversions - очередь неудачных конвертаций.
func (s *Storage) ListFailedConversions(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "storage.sqlstore.ListFailedConversions"

	return s.queryDailyOrders(ctx, op, `conversion_status = ?`, storage.ConversionFailed)
}

// FixConversionFailure сохраняет правку и возвращает заказ в ожидание конвертации.
func (s *Storage) FixConversionFailure(ctx context.Context, o storage.OrderRecord) error {
	const op = "storage.sqlstore.FixConversionFailure"

	stmt := `UPDATE daily_orders SET order_number = ?, doc_type = ?, item_code = ?, item_name = ?, quantity = ?,
		delivery_date = ?, plate_count = ?, designer = ?, customer = ?, handler = ?, issuer = ?, status = ?,
		log_msg = ?, error_reason = ?, conversion_status = ?, conversion_note = '', conversion_claim = '', claimed_at = 0
		WHERE id = ? AND is_converted = 0`

	args := append(orderArgs(o), storage.ConversionPending, o.ID)
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOrderNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, o.ID, err)
	}

	return nil
}

// ClaimForConversion захватывает заказ сменой статуса. Успешен только
// один из конкурирующих захватов.
func (s *Storage) ClaimForConversion(ctx context.Context, id int64, token string) (bool, error) {
	const op = "storage.sqlstore.ClaimForConversion"

	stmt := `UPDATE daily_orders SET conversion_status = ?, conversion_claim = ?, claimed_at = ?
		WHERE id = ? AND is_converted = 0 AND conversion_status IN (?, '') AND status <> ?`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionInProgress, token, time.Now().Unix(),
		id, storage.ConversionPending, string(storage.StatusError))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n == 1, nil
}

func (s *Storage) ReleaseClaim(ctx context.Context, id int64, token string) error {
	const op = "storage.sqlstore.ReleaseClaim"

	stmt := `UPDATE daily_orders SET conversion_status = ?, conversion_claim = '', claimed_at = 0
		WHERE id = ? AND conversion_claim = ?`

	if _, err := s.db.ExecContext(ctx, stmt, storage.ConversionPending, id, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MarkConverted завершает конвертацию, если захват ещё принадлежит token.
func (s *Storage) MarkConverted(ctx context.Context, id int64, token string) error {
	const op = "storage.sqlstore.MarkConverted"

	stmt := `UPDATE daily_orders SET is_converted = 1, conversion_status = ?, conversion_note = '',
		conversion_claim = '', claimed_at = 0 WHERE id = ? AND conversion_claim = ?`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionSuccess, id, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrClaimLost); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

func (s *Storage) MarkConversionFailed(ctx context.Context, id int64, reason string) error {
	const op = "storage.sqlstore.MarkConversionFailed"

	stmt := `UPDATE daily_orders SET conversion_status = ?, conversion_note = ?, conversion_claim = '', claimed_at = 0
		WHERE id = ? AND is_converted = 0`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionFailed, reason, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrOrderNotFound); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

// ClaimForRevert снимает флаг конвертации и захватывает заказ на время отката.
// Заказ, который сейчас конвертируется или откатывается, не захватывается.
func (s *Storage) ClaimForRevert(ctx context.Context, id int64, token string) (bool, error) {
	const op = "storage.sqlstore.ClaimForRevert"

	stmt := `UPDATE daily_orders SET is_converted = 0, conversion_status = ?, conversion_note = '',
		conversion_claim = ?, claimed_at = ? WHERE id = ? AND conversion_status NOT IN (?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionReverting, token, time.Now().Unix(),
		id, storage.ConversionInProgress, storage.ConversionReverting)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n == 1 {
		return true, nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_orders WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if exists == 0 {
		return false, fmt.Errorf("%s: id %d: %w", op, id, storage.ErrOrderNotFound)
	}

	return false, nil
}

// FinishRevert возвращает откаченный заказ в ожидание конвертации.
func (s *Storage) FinishRevert(ctx context.Context, id int64, token string) error {
	const op = "storage.sqlstore.FinishRevert"

	stmt := `UPDATE daily_orders SET conversion_status = ?, conversion_claim = '', claimed_at = 0
		WHERE id = ? AND conversion_claim = ?`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionPending, id, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mustAffect(res, storage.ErrClaimLost); err != nil {
		return fmt.Errorf("%s: id %d: %w", op, id, err)
	}

	return nil
}

// ReleaseStaleClaims возвращает в ожидание заказы, захваченные раньше claimedBefore.
func (s *Storage) ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error) {
	const op = "storage.sqlstore.ReleaseStaleClaims"

	stmt := `UPDATE daily_orders SET conversion_status = ?, conversion_claim = '', claimed_at = 0
		WHERE conversion_status IN (?, ?) AND claimed_at < ?`

	res, err := s.db.ExecContext(ctx, stmt, storage.ConversionPending,
		storage.ConversionInProgress, storage.ConversionReverting, claimedBefore.Unix())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
