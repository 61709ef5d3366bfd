package masterdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"printshop/internal/storage"
)

type Store interface {
	Source
	ReplaceMasterData(ctx context.Context, set storage.MasterDataSet) error
}

// Holder отдаёт текущий снимок. Снимок меняется только через Reload/Import,
// читатели берут его один раз на запрос или пакет.
type Holder struct {
	log     *slog.Logger
	store   Store
	current atomic.Pointer[Snapshot]
}

func NewHolder(log *slog.Logger, store Store) *Holder {
	h := &Holder{log: log, store: store}
	h.current.Store(Empty())
	return h
}

func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

func (h *Holder) Reload(ctx context.Context) (Stats, error) {
	const op = "service.masterdata.Reload"

	snap, err := Load(ctx, h.store)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	h.current.Store(snap)

	stats := snap.Stats()
	h.log.Info("master data reloaded",
		slog.Int("items", stats.Items),
		slog.Int("routes", stats.Routes),
		slog.Int("op_times", stats.OpTimes),
	)

	return stats, nil
}

// Import перезаписывает справочники и перечитывает снимок.
func (h *Holder) Import(ctx context.Context, set storage.MasterDataSet) (Stats, error) {
	const op = "service.masterdata.Import"

	prepared, err := Prepare(set)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := h.store.ReplaceMasterData(ctx, prepared); err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	return h.Reload(ctx)
}
