// Package intake - импорт заказов во временную зону, правка, перенос в
// постоянную таблицу и очередь исправлений.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"printshop/internal/service/fingerprint"
	"printshop/internal/service/masterdata"
	"printshop/internal/service/normalize"
	"printshop/internal/service/validate"
	"printshop/internal/storage"
)

const returnedNote = "returned from correction queue"

var ErrNotInQueue = errors.New("order is not in the correction queue")

type Store interface {
	FetchDailyOrdersByNumbers(ctx context.Context, numbers []string) ([]storage.OrderRecord, error)
	ReplaceTempOrders(ctx context.Context, orders []storage.OrderRecord) error
	ListTempOrders(ctx context.Context) ([]storage.OrderRecord, error)
	GetTempOrder(ctx context.Context, id int64) (storage.OrderRecord, error)
	UpdateTempOrder(ctx context.Context, o storage.OrderRecord) error
	DeleteTempOrder(ctx context.Context, id int64) error
	CommitTempOrders(ctx context.Context, orders []storage.OrderRecord) error
	GetDailyOrder(ctx context.Context, id int64) (storage.OrderRecord, error)
	ListErrorOrders(ctx context.Context) ([]storage.OrderRecord, error)
	ListFailedConversions(ctx context.Context) ([]storage.OrderRecord, error)
	ReturnOrderToTemp(ctx context.Context, dailyID int64, o storage.OrderRecord) error
	FixConversionFailure(ctx context.Context, o storage.OrderRecord) error
}

type SnapshotProvider interface {
	Current() *masterdata.Snapshot
}

type ImportResult struct {
	Total      int     `json:"total"`
	Imported   int     `json:"imported"`
	Duplicates int     `json:"duplicates"`
	OK         int     `json:"ok"`
	Errors     int     `json:"errors"`
	MissRoute  int     `json:"miss_route"`
	Accuracy   float64 `json:"accuracy"`
}

type CommitResult struct {
	Moved     int `json:"moved"`
	OK        int `json:"ok"`
	Errors    int `json:"errors"`
	MissRoute int `json:"miss_route"`
}

type Service struct {
	log       *slog.Logger
	store     Store
	snapshots SnapshotProvider
}

func NewService(log *slog.Logger, store Store, snapshots SnapshotProvider) *Service {
	return &Service{log: log, store: store, snapshots: snapshots}
}

// Validate - проверка заказа без записи, на каждую правку в интерфейсе.
func (s *Service) Validate(o storage.OrderRecord) validate.Result {
	return validate.Validate(o, s.snapshots.Current())
}

// Import нормализует строки, отбрасывает уже сохранённые дубли,
// проверяет оставшиеся и кладёт их во временную зону.
func (s *Service) Import(ctx context.Context, raws []storage.RawOrder) (ImportResult, error) {
	const op = "service.intake.Import"

	incoming := make([]storage.OrderRecord, 0, len(raws))
	for _, r := range raws {
		incoming = append(incoming, normalize.FromRaw(r))
	}

	res := ImportResult{Total: len(incoming)}
	if len(incoming) == 0 {
		return res, nil
	}

	// сравниваем только с заказами тех же номеров
	existing, err := s.store.FetchDailyOrdersByNumbers(ctx, fingerprint.OrderNumbers(incoming))
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: fetch existing: %w", op, err)
	}

	kept, dropped := fingerprint.Filter(incoming, fingerprint.NewSet(existing))
	res.Duplicates = dropped

	snap := s.snapshots.Current()
	for i := range kept {
		kept[i] = validate.Annotate(kept[i], snap)
		res.count(kept[i].Status)
	}

	if len(kept) > 0 {
		// новый пакет заменяет временную зону
		if err := s.store.ReplaceTempOrders(ctx, kept); err != nil {
			return ImportResult{}, fmt.Errorf("%s: replace temp: %w", op, err)
		}
	}

	res.Imported = len(kept)
	// Miss_Route в точности считается успехом
	res.Accuracy = percent(res.Imported-res.Errors, res.Imported)

	s.log.Info("orders imported",
		slog.Int("total", res.Total),
		slog.Int("imported", res.Imported),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("errors", res.Errors),
	)

	return res, nil
}

// ListTemp - временная зона, строки с ошибками первыми.
func (s *Service) ListTemp(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "service.intake.ListTemp"

	orders, err := s.store.ListTempOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		ei, ej := orders[i].Status == storage.StatusError, orders[j].Status == storage.StatusError
		if ei != ej {
			return ei
		}
		return orders[i].ID < orders[j].ID
	})

	return orders, nil
}

// UpdateTemp применяет правку и заново проверяет строку.
func (s *Service) UpdateTemp(ctx context.Context, id int64, patch storage.OrderPatch) (storage.OrderRecord, error) {
	const op = "service.intake.UpdateTemp"

	o, err := s.store.GetTempOrder(ctx, id)
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	o = validate.Annotate(normalize.Apply(o, patch), s.snapshots.Current())

	if err := s.store.UpdateTempOrder(ctx, o); err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Service) DeleteTemp(ctx context.Context, id int64) error {
	const op = "service.intake.DeleteTemp"

	if err := s.store.DeleteTempOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Commit переносит всю временную зону в daily_orders, строки с ошибками тоже.
func (s *Service) Commit(ctx context.Context) (CommitResult, error) {
	const op = "service.intake.Commit"

	orders, err := s.store.ListTempOrders(ctx)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var res CommitResult
	if len(orders) == 0 {
		return res, nil
	}

	snap := s.snapshots.Current()
	for i := range orders {
		orders[i] = validate.Annotate(orders[i], snap)
		switch orders[i].Status {
		case storage.StatusOK:
			res.OK++
		case storage.StatusError:
			res.Errors++
		case storage.StatusMissRoute:
			res.MissRoute++
		}
	}

	if err := s.store.CommitTempOrders(ctx, orders); err != nil {
		return CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res.Moved = len(orders)
	s.log.Info("temp orders committed", slog.Int("moved", res.Moved), slog.Int("errors", res.Errors))

	return res, nil
}

// ErrorQueue - заказы daily_orders со статусом Error.
func (s *Service) ErrorQueue(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "service.intake.ErrorQueue"

	orders, err := s.store.ListErrorOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// ConversionQueue - заказы, отправленные на исправление после конвертации.
func (s *Service) ConversionQueue(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "service.intake.ConversionQueue"

	orders, err := s.store.ListFailedConversions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// ReturnToTemp - исправленный заказ со статусом Error возвращается во временную зону.
func (s *Service) ReturnToTemp(ctx context.Context, dailyID int64, patch storage.OrderPatch) (storage.OrderRecord, error) {
	const op = "service.intake.ReturnToTemp"

	o, err := s.store.GetDailyOrder(ctx, dailyID)
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.Status != storage.StatusError {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, ErrNotInQueue)
	}

	o = validate.Annotate(normalize.Apply(o, patch), s.snapshots.Current())
	if o.Status != storage.StatusError {
		o.LogMsg = joinNote(returnedNote, o.LogMsg)
	}
	o.IsConverted = false
	o.ConversionStatus = ""
	o.ConversionNote = ""

	if err := s.store.ReturnOrderToTemp(ctx, dailyID, o); err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

// FixConversion правит заказ из очереди неудачных конвертаций и
// возвращает его в ожидание конвертации.
func (s *Service) FixConversion(ctx context.Context, dailyID int64, patch storage.OrderPatch) (storage.OrderRecord, error) {
	const op = "service.intake.FixConversion"

	o, err := s.store.GetDailyOrder(ctx, dailyID)
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.ConversionStatus != storage.ConversionFailed {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, ErrNotInQueue)
	}

	o = validate.Annotate(normalize.Apply(o, patch), s.snapshots.Current())
	o.ConversionStatus = storage.ConversionPending
	o.ConversionNote = ""

	if err := s.store.FixConversionFailure(ctx, o); err != nil {
		return storage.OrderRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (r *ImportResult) count(st storage.Status) {
	switch st {
	case storage.StatusOK:
		r.OK++
	case storage.StatusError:
		r.Errors++
	case storage.StatusMissRoute:
		r.MissRoute++
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	p, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		Float64()
	return p
}

func joinNote(note, msg string) string {
	if msg == "" {
		return note
	}
	return note + "; " + msg
}
