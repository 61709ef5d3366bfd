package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"printshop/internal/service/masterdata"
	"printshop/internal/storage"
)

const (
	reasonNotFound      = "order not found"
	reasonConverted     = "order is already converted"
	reasonHasErrors     = "order has validation errors"
	reasonInCorrection  = "order is in the correction queue"
	reasonClaimedByPeer = "order is being converted by another operator"
)

// ErrOrderBusy - заказ сейчас конвертирует или откатывает другой оператор.
var ErrOrderBusy = errors.New(reasonClaimedByPeer)

type Store interface {
	GetDailyOrders(ctx context.Context, ids []int64) ([]storage.OrderRecord, error)
	ListConvertibleOrders(ctx context.Context) ([]storage.OrderRecord, error)
	ClaimForConversion(ctx context.Context, id int64, token string) (bool, error)
	ReleaseClaim(ctx context.Context, id int64, token string) error
	ReplaceConvertedOperations(ctx context.Context, sourceOrderID int64, rows []storage.ConvertedOperation) error
	MarkConverted(ctx context.Context, id int64, token string) error
	MarkConversionFailed(ctx context.Context, id int64, reason string) error
	ClaimForRevert(ctx context.Context, id int64, token string) (bool, error)
	FinishRevert(ctx context.Context, id int64, token string) error
	DeleteConvertedOperations(ctx context.Context, sourceOrderID int64) error
	ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error)
}

type SnapshotProvider interface {
	Current() *masterdata.Snapshot
}

type FailedOrder struct {
	Order  storage.OrderRecord `json:"order"`
	Reason string              `json:"reason"`
}

type BatchResult struct {
	Succeeded       []storage.ConvertedOperation `json:"succeeded"`
	Failed          []FailedOrder                `json:"failed"`
	ConvertedOrders int                          `json:"converted_orders"`
}

type Service struct {
	log       *slog.Logger
	store     Store
	snapshots SnapshotProvider
	workers   int
}

func NewService(log *slog.Logger, store Store, snapshots SnapshotProvider, workers int) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{log: log, store: store, snapshots: snapshots, workers: workers}
}

// план конвертации одного заказа
type plan struct {
	order  storage.OrderRecord
	rows   []storage.ConvertedOperation
	reason string
}

func (s *Service) Candidates(ctx context.Context) ([]storage.OrderRecord, error) {
	const op = "service.convert.Candidates"

	orders, err := s.store.ListConvertibleOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// Preview считает конвертацию без записи.
func (s *Service) Preview(ctx context.Context, ids []int64) (BatchResult, error) {
	const op = "service.convert.Preview"

	plans, err := s.plan(ctx, ids)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return collect(plans), nil
}

// ConvertBatch конвертирует выбранные заказы. Ошибка одного заказа не
// останавливает остальные: он попадает в Failed со своей причиной.
func (s *Service) ConvertBatch(ctx context.Context, ids []int64) (BatchResult, error) {
	const op = "service.convert.ConvertBatch"

	plans, err := s.plan(ctx, ids)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range plans {
		if plans[i].reason != "" {
			continue
		}
		p := &plans[i]
		g.Go(func() error {
			if reason := s.apply(gCtx, p.order, p.rows); reason != "" {
				p.reason = reason
				p.rows = nil
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := collect(plans)
	s.log.Info("conversion finished",
		slog.Int("requested", len(plans)),
		slog.Int("converted", res.ConvertedOrders),
		slog.Int("failed", len(res.Failed)),
	)

	return res, nil
}

// plan - первая фаза: чистый расчёт по одному снимку справочников.
func (s *Service) plan(ctx context.Context, ids []int64) ([]plan, error) {
	ids = uniqueIDs(ids)

	orders, err := s.store.GetDailyOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]storage.OrderRecord, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	snap := s.snapshots.Current()
	plans := make([]plan, len(ids))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, id := range ids {
		o, ok := byID[id]
		if !ok {
			plans[i] = plan{order: storage.OrderRecord{ID: id}, reason: reasonNotFound}
			continue
		}
		if reason := eligibility(o); reason != "" {
			plans[i] = plan{order: o, reason: reason}
			continue
		}

		g.Go(func() error {
			rows, err := Convert(o, snap)
			if err != nil {
				plans[i] = plan{order: o, reason: err.Error()}
				return nil
			}
			plans[i] = plan{order: o, rows: rows}
			return nil
		})
	}
	_ = g.Wait()

	return plans, nil
}

// apply - вторая фаза для одного заказа: захват, удаление старых строк
// и вставка новых, отметка о конвертации. Возвращает причину неудачи.
func (s *Service) apply(ctx context.Context, o storage.OrderRecord, rows []storage.ConvertedOperation) string {
	const op = "service.convert.apply"

	log := s.log.With(slog.String("op", op), slog.Int64("order_id", o.ID))
	token := uuid.NewString()

	claimed, err := s.store.ClaimForConversion(ctx, o.ID, token)
	if err != nil {
		log.Error("claim failed", slog.String("error", err.Error()))
		return "claim failed: " + err.Error()
	}
	if !claimed {
		return reasonClaimedByPeer
	}

	if err := s.store.ReplaceConvertedOperations(ctx, o.ID, rows); err != nil {
		log.Error("save operations failed", slog.String("error", err.Error()))
		if relErr := s.store.ReleaseClaim(ctx, o.ID, token); relErr != nil {
			log.Error("release claim failed", slog.String("error", relErr.Error()))
		}
		return "save operations failed: " + err.Error()
	}

	if err := s.store.MarkConverted(ctx, o.ID, token); err != nil {
		log.Error("mark converted failed", slog.String("error", err.Error()))
		if errors.Is(err, storage.ErrClaimLost) {
			return storage.ErrClaimLost.Error()
		}
		return "mark converted failed: " + err.Error()
	}

	return ""
}

// MoveToCorrection отправляет заказ в очередь исправления.
func (s *Service) MoveToCorrection(ctx context.Context, id int64, reason string) error {
	const op = "service.convert.MoveToCorrection"

	if err := s.store.MarkConversionFailed(ctx, id, reason); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Revert откатывает конвертацию под захватом: флаг снимается при захвате,
// затем удаляются строки операций, затем заказ возвращается в ожидание.
// Пока идёт откат, конвертер не может захватить заказ.
func (s *Service) Revert(ctx context.Context, id int64) error {
	const op = "service.convert.Revert"

	token := uuid.NewString()

	claimed, err := s.store.ClaimForRevert(ctx, id, token)
	if err != nil {
		return fmt.Errorf("%s: claim: %w", op, err)
	}
	if !claimed {
		return fmt.Errorf("%s: id %d: %w", op, id, ErrOrderBusy)
	}

	if err := s.store.DeleteConvertedOperations(ctx, id); err != nil {
		// флаг уже снят, повторная конвертация заменит оставшиеся строки
		if relErr := s.store.FinishRevert(ctx, id, token); relErr != nil {
			s.log.Error("release revert claim failed",
				slog.String("op", op), slog.Int64("order_id", id), slog.String("error", relErr.Error()))
		}
		return fmt.Errorf("%s: delete operations: %w", op, err)
	}

	if err := s.store.FinishRevert(ctx, id, token); err != nil {
		return fmt.Errorf("%s: finish: %w", op, err)
	}

	return nil
}

// ReleaseStaleClaims возвращает в очередь заказы, захваченные дольше ttl.
func (s *Service) ReleaseStaleClaims(ctx context.Context, ttl time.Duration) (int64, error) {
	const op = "service.convert.ReleaseStaleClaims"

	n, err := s.store.ReleaseStaleClaims(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if n > 0 {
		s.log.Warn("stale conversion claims released", slog.Int64("count", n))
	}

	return n, nil
}

// uniqueIDs убирает повторы, сохраняя порядок первого появления.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func eligibility(o storage.OrderRecord) string {
	switch {
	case o.IsConverted:
		return reasonConverted
	case o.Status == storage.StatusError:
		return reasonHasErrors
	case o.ConversionStatus == storage.ConversionFailed:
		return reasonInCorrection
	}
	return ""
}

func collect(plans []plan) BatchResult {
	res := BatchResult{
		Succeeded: []storage.ConvertedOperation{},
		Failed:    []FailedOrder{},
	}

	for _, p := range plans {
		if p.reason != "" {
			res.Failed = append(res.Failed, FailedOrder{Order: p.order, Reason: p.reason})
			continue
		}
		res.Succeeded = append(res.Succeeded, p.rows...)
		res.ConvertedOrders++
	}

	return res
}
