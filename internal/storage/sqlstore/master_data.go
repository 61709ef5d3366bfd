package sqlstore

import (
	"context"
	"fmt"

	"printshop/internal/storage"
)

func (s *Storage) FetchItemRoutes(ctx context.Context) ([]storage.ItemRoute, error) {
	const op = "storage.sqlstore.FetchItemRoutes"

	rows, err := s.db.QueryContext(ctx, `SELECT item_code, route_id FROM item_routes ORDER BY item_code`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var routes []storage.ItemRoute
	for rows.Next() {
		var r storage.ItemRoute
		if err := rows.Scan(&r.ItemCode, &r.RouteID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		routes = append(routes, r)
	}

	return routes, rows.Err()
}

func (s *Storage) FetchRouteOperations(ctx context.Context) ([]storage.RouteOperation, error) {
	const op = "storage.sqlstore.FetchRouteOperations"

	rows, err := s.db.QueryContext(ctx, `SELECT route_id, sequence, op_name FROM route_operations ORDER BY route_id, sequence`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ops []storage.RouteOperation
	for rows.Next() {
		var r storage.RouteOperation
		if err := rows.Scan(&r.RouteID, &r.Sequence, &r.OpName); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ops = append(ops, r)
	}

	return ops, rows.Err()
}

func (s *Storage) FetchOperationTimes(ctx context.Context) ([]storage.OperationTime, error) {
	const op = "storage.sqlstore.FetchOperationTimes"

	rows, err := s.db.QueryContext(ctx, `SELECT op_name, station, std_time_min FROM operation_times ORDER BY op_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var times []storage.OperationTime
	for rows.Next() {
		var t storage.OperationTime
		if err := rows.Scan(&t.OpName, &t.Station, &t.StdTimeMin); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		times = append(times, t)
	}

	return times, rows.Err()
}

// ReplaceMasterData перезаписывает справочники одной транзакцией:
// сначала удаляются операции маршрутов, затем маршруты и нормы времени,
// вставка идёт в обратном порядке.
func (s *Storage) ReplaceMasterData(ctx context.Context, set storage.MasterDataSet) error {
	const op = "storage.sqlstore.ReplaceMasterData"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"route_operations", "item_routes", "operation_times"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("%s: clear %s: %w", op, table, err)
		}
	}

	insertTimes, err := tx.PrepareContext(ctx, `INSERT INTO operation_times (op_name, station, std_time_min) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare operation_times: %w", op, err)
	}
	defer insertTimes.Close()

	for _, t := range set.OperationTimes {
		if _, err := insertTimes.ExecContext(ctx, t.OpName, t.Station, t.StdTimeMin); err != nil {
			return fmt.Errorf("%s: insert operation time %s: %w", op, t.OpName, mapErr(err))
		}
	}

	insertRoutes, err := tx.PrepareContext(ctx, `INSERT INTO item_routes (item_code, route_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare item_routes: %w", op, err)
	}
	defer insertRoutes.Close()

	for _, r := range set.ItemRoutes {
		if _, err := insertRoutes.ExecContext(ctx, r.ItemCode, r.RouteID); err != nil {
			return fmt.Errorf("%s: insert item route %s: %w", op, r.ItemCode, mapErr(err))
		}
	}

	insertOps, err := tx.PrepareContext(ctx, `INSERT INTO route_operations (route_id, sequence, op_name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare route_operations: %w", op, err)
	}
	defer insertOps.Close()

	for _, r := range set.RouteOperations {
		if _, err := insertOps.ExecContext(ctx, r.RouteID, r.Sequence, r.OpName); err != nil {
			return fmt.Errorf("%s: insert route operation %s/%d: %w", op, r.RouteID, r.Sequence, mapErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
