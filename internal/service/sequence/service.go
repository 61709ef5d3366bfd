package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"printshop/internal/constants"
	"printshop/internal/service/convert"
	"printshop/internal/service/masterdata"
	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

var ErrUnknownOperation = errors.New("operation has no standard time in master data")

type Store interface {
	ListOperationsByOrder(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error)
	GetConvertedOperation(ctx context.Context, id int64) (storage.ConvertedOperation, error)
	GetDailyOrder(ctx context.Context, id int64) (storage.OrderRecord, error)
	InsertConvertedOperation(ctx context.Context, row storage.ConvertedOperation) (int64, error)
	UpdateSequences(ctx context.Context, updates []storage.SequenceUpdate) error
	DeleteConvertedOperation(ctx context.Context, id int64) error
}

type SnapshotProvider interface {
	Current() *masterdata.Snapshot
}

// NewOperation - операция, которую оператор вставляет в маршрут заказа.
// Station и StdTime берутся из справочника, если не заданы явно.
type NewOperation struct {
	OpName  string   `json:"op_name"`
	Station string   `json:"station,omitempty"`
	StdTime *float64 `json:"std_time,omitempty"`
}

type Service struct {
	log       *slog.Logger
	store     Store
	snapshots SnapshotProvider
}

func NewService(log *slog.Logger, store Store, snapshots SnapshotProvider) *Service {
	return &Service{log: log, store: store, snapshots: snapshots}
}

func (s *Service) List(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error) {
	const op = "service.sequence.List"

	ops, err := s.store.ListOperationsByOrder(ctx, sourceOrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sorted(ops), nil
}

// Insert добавляет операцию и полностью перенумеровывает список заказа.
func (s *Service) Insert(ctx context.Context, sourceOrderID int64, point InsertionPoint, req NewOperation) ([]storage.ConvertedOperation, error) {
	const op = "service.sequence.Insert"

	ops, err := s.store.ListOperationsByOrder(ctx, sourceOrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row, err := s.buildRow(ctx, sourceOrderID, ops, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := Insert(ops, point, row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// сначала сдвигаем существующие, потом вставляем новую
	if len(res.Updates) > 0 {
		if err := s.store.UpdateSequences(ctx, res.Updates); err != nil {
			return nil, fmt.Errorf("%s: shift sequences: %w", op, err)
		}
	}

	row.Sequence = res.NewSequence
	if _, err := s.store.InsertConvertedOperation(ctx, row); err != nil {
		return nil, fmt.Errorf("%s: insert operation: %w", op, err)
	}

	return s.verified(ctx, sourceOrderID)
}

// Delete удаляет операцию, остальные номера не трогаются.
func (s *Service) Delete(ctx context.Context, id int64) ([]storage.ConvertedOperation, error) {
	const op = "service.sequence.Delete"

	target, err := s.store.GetConvertedOperation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ops, err := s.store.ListOperationsByOrder(ctx, target.SourceOrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	remaining, err := Delete(ops, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.DeleteConvertedOperation(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return remaining, nil
}

// Repair пересчитывает каноническую нумерацию заказа.
func (s *Service) Repair(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error) {
	const op = "service.sequence.Repair"

	ops, err := s.store.ListOperationsByOrder(ctx, sourceOrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, updates := Renumber(ops)
	if len(updates) == 0 {
		return list, nil
	}

	if err := s.store.UpdateSequences(ctx, updates); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sequence renumbered", slog.Int64("source_order_id", sourceOrderID), slog.Int("updated", len(updates)))

	return s.verified(ctx, sourceOrderID)
}

// verified перечитывает список и при нарушении порядка один раз чинит его.
func (s *Service) verified(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error) {
	const op = "service.sequence.verified"

	for attempt := 0; attempt < 2; attempt++ {
		ops, err := s.store.ListOperationsByOrder(ctx, sourceOrderID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list := sorted(ops)
		if Verify(list) == nil {
			return list, nil
		}

		s.log.Warn("sequence out of order, renumbering", slog.Int64("source_order_id", sourceOrderID))

		_, updates := Renumber(list)
		if err := s.store.UpdateSequences(ctx, updates); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil, fmt.Errorf("%s: source order %d: %w", op, sourceOrderID, ErrNotOrdered)
}

func (s *Service) buildRow(ctx context.Context, sourceOrderID int64, ops []storage.ConvertedOperation, req NewOperation) (storage.ConvertedOperation, error) {
	name := normalize.Text(req.OpName)
	if name == "" {
		return storage.ConvertedOperation{}, fmt.Errorf("%w: empty op_name", ErrUnknownOperation)
	}

	var row storage.ConvertedOperation
	if len(ops) > 0 {
		row = carryFrom(ops[0])
	} else {
		order, err := s.store.GetDailyOrder(ctx, sourceOrderID)
		if err != nil {
			return storage.ConvertedOperation{}, err
		}
		row = convert.Carry(normalize.Order(order))
	}

	station, std := normalize.Text(req.Station), 0.0
	t, known := s.snapshots.Current().TimeFor(name)
	if known {
		std = t.StdTimeMin
		if station == "" {
			station = t.Station
		}
	}
	if req.StdTime != nil {
		std = *req.StdTime
	} else if !known {
		return storage.ConvertedOperation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if station == "" {
		station = constants.UnknownStation
	}

	total, basis := convert.Calculate(station, std, row.Quantity, normalize.Number(row.PlateCount))

	row.OpName = name
	row.Station = station
	row.StdTime = std
	row.BasisText = basis
	row.TotalTimeMin = total

	return row, nil
}

// carryFrom берёт поля заказа из соседней строки, без планирования.
func carryFrom(src storage.ConvertedOperation) storage.ConvertedOperation {
	return storage.ConvertedOperation{
		SourceOrderID: src.SourceOrderID,
		OrderNumber:   src.OrderNumber,
		DocType:       src.DocType,
		ItemCode:      src.ItemCode,
		ItemName:      src.ItemName,
		Quantity:      src.Quantity,
		PlateCount:    src.PlateCount,
		DeliveryDate:  src.DeliveryDate,
		Designer:      src.Designer,
		Customer:      src.Customer,
		Handler:       src.Handler,
		Issuer:        src.Issuer,
	}
}
