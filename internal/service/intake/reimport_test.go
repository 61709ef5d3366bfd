package intake

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
	"printshop/internal/storage/sqlstore"
)

func TestImport_SameBatchTwiceBeforeCommit(t *testing.T) {
	ctx := context.Background()

	db, err := sqlstore.Open(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	svc := NewService(slog.Default(), db, staticSnapshot{})
	batch := []storage.RawOrder{raw("A1", "AC-200", "10"), raw("A2", "EMPTY", "4")}

	first, err := svc.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := svc.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Imported)

	temp, err := svc.ListTemp(ctx)
	require.NoError(t, err)
	assert.Len(t, temp, 2)

	committed, err := svc.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, committed.Moved)

	daily, err := db.FetchDailyOrdersByNumbers(ctx, []string{"A1"})
	require.NoError(t, err)
	assert.Len(t, daily, 1)

	// после фиксации тот же файл целиком отсеивается как дубликат
	third, err := svc.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Duplicates)
	assert.Zero(t, third.Imported)

	temp, err = svc.ListTemp(ctx)
	require.NoError(t, err)
	assert.Empty(t, temp)
}
