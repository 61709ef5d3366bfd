package convert

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
	"printshop/internal/storage/sqlstore"
)

// interleavingStore запускает during перед первым удалением строк операций.
type interleavingStore struct {
	*sqlstore.Storage
	during func()
}

func (s *interleavingStore) DeleteConvertedOperations(ctx context.Context, sourceOrderID int64) error {
	if f := s.during; f != nil {
		s.during = nil
		f()
	}
	return s.Storage.DeleteConvertedOperations(ctx, sourceOrderID)
}

func openStore(t *testing.T) *sqlstore.Storage {
	t.Helper()

	st, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	return st
}

func committedOrder(t *testing.T, st *sqlstore.Storage) int64 {
	t.Helper()
	ctx := context.Background()

	o := order()
	o.ID = 0
	o.ItemCode = "AC-200"
	o.Status = storage.StatusOK

	require.NoError(t, st.ReplaceTempOrders(ctx, []storage.OrderRecord{o}))
	temp, err := st.ListTempOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, st.CommitTempOrders(ctx, temp))

	daily, err := st.FetchDailyOrdersByNumbers(ctx, []string{o.OrderNumber})
	require.NoError(t, err)
	require.Len(t, daily, 1)

	return daily[0].ID
}

func TestRevert_ConverterCannotSlipInBetween(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	id := committedOrder(t, db)

	st := &interleavingStore{Storage: db}
	svc := NewService(slog.Default(), st, staticSnapshot{snap: snapshot()}, 2)

	res, err := svc.ConvertBatch(ctx, []int64{id})
	require.NoError(t, err)
	require.Equal(t, 1, res.ConvertedOrders)

	var interleaved BatchResult
	st.during = func() {
		interleaved, err = svc.ConvertBatch(ctx, []int64{id})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Revert(ctx, id))

	assert.Zero(t, interleaved.ConvertedOrders)
	require.Len(t, interleaved.Failed, 1)
	assert.Equal(t, reasonClaimedByPeer, interleaved.Failed[0].Reason)

	o, err := db.GetDailyOrder(ctx, id)
	require.NoError(t, err)
	assert.False(t, o.IsConverted)
	assert.Equal(t, storage.ConversionPending, o.ConversionStatus)

	rows, err := db.ListOperationsByOrder(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)

	candidates, err := svc.Candidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, id, candidates[0].ID)

	// после отката заказ снова конвертируется
	res, err = svc.ConvertBatch(ctx, []int64{id})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConvertedOrders)

	rows, err = db.ListOperationsByOrder(ctx, id)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRevert_WaitsForRunningConversion(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	id := committedOrder(t, db)

	claimed, err := db.ClaimForConversion(ctx, id, "converter-1")
	require.NoError(t, err)
	require.True(t, claimed)

	svc := NewService(slog.Default(), db, staticSnapshot{snap: snapshot()}, 1)
	assert.ErrorIs(t, svc.Revert(ctx, id), ErrOrderBusy)

	// конвертер спокойно завершает свою работу
	require.NoError(t, db.MarkConverted(ctx, id, "converter-1"))
}
