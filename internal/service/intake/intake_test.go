package intake

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printshop/internal/service/fingerprint"
	"printshop/internal/service/masterdata"
	"printshop/internal/service/normalize"
	"printshop/internal/service/validate"
	"printshop/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FetchDailyOrdersByNumbers(ctx context.Context, numbers []string) ([]storage.OrderRecord, error) {
	args := m.Called(ctx, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.OrderRecord), args.Error(1)
}

func (m *MockStore) ReplaceTempOrders(ctx context.Context, orders []storage.OrderRecord) error {
	return m.Called(ctx, orders).Error(0)
}

func (m *MockStore) ListTempOrders(ctx context.Context) ([]storage.OrderRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.OrderRecord), args.Error(1)
}

func (m *MockStore) GetTempOrder(ctx context.Context, id int64) (storage.OrderRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.OrderRecord), args.Error(1)
}

func (m *MockStore) UpdateTempOrder(ctx context.Context, o storage.OrderRecord) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockStore) DeleteTempOrder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) CommitTempOrders(ctx context.Context, orders []storage.OrderRecord) error {
	return m.Called(ctx, orders).Error(0)
}

func (m *MockStore) GetDailyOrder(ctx context.Context, id int64) (storage.OrderRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.OrderRecord), args.Error(1)
}

func (m *MockStore) ListErrorOrders(ctx context.Context) ([]storage.OrderRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.OrderRecord), args.Error(1)
}

func (m *MockStore) ListFailedConversions(ctx context.Context) ([]storage.OrderRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.OrderRecord), args.Error(1)
}

func (m *MockStore) ReturnOrderToTemp(ctx context.Context, dailyID int64, o storage.OrderRecord) error {
	return m.Called(ctx, dailyID, o).Error(0)
}

func (m *MockStore) FixConversionFailure(ctx context.Context, o storage.OrderRecord) error {
	return m.Called(ctx, o).Error(0)
}

type staticSnapshot struct{}

func (staticSnapshot) Current() *masterdata.Snapshot {
	return masterdata.Build(
		[]storage.ItemRoute{{ItemCode: "AC-200", RouteID: "R1"}, {ItemCode: "EMPTY", RouteID: "R0"}},
		[]storage.RouteOperation{{RouteID: "R1", Sequence: 10, OpName: "印刷"}},
		[]storage.OperationTime{{OpName: "印刷", Station: "印刷站2F", StdTimeMin: 0.1}},
	)
}

func raw(num, code string, qty string) storage.RawOrder {
	return storage.RawOrder{
		OrderNumber:  num,
		DocType:      "一般單",
		ItemCode:     code,
		ItemName:     "立牌",
		Quantity:     storage.LooseValue(qty),
		DeliveryDate: "2026-10-30",
	}
}

func TestImport(t *testing.T) {
	st := new(MockStore)
	svc := NewService(slog.Default(), st, staticSnapshot{})

	st.On("FetchDailyOrdersByNumbers", mock.Anything, []string{"SO-1", "SO-2"}).
		Return([]storage.OrderRecord{{OrderNumber: "SO-1", DocType: "一般單", ItemCode: "AC-200", ItemName: "立牌", Quantity: 10, DeliveryDate: "2026-10-30"}}, nil)
	st.On("ReplaceTempOrders", mock.Anything, mock.MatchedBy(func(orders []storage.OrderRecord) bool {
		return len(orders) == 3 &&
			orders[0].Status == storage.StatusOK &&
			orders[1].Status == storage.StatusError &&
			orders[1].ErrorReason == validate.MsgQuantity &&
			orders[2].Status == storage.StatusMissRoute
	})).Return(nil)

	res, err := svc.Import(context.Background(), []storage.RawOrder{
		{OrderNumber: " SO-1", DocType: "一般單", ItemCode: "ac-200 ", ItemName: "立牌", Quantity: "10", DeliveryDate: "2026-10-30"},
		raw("SO-1", "AC-200", "12"),
		raw("SO-2", "AC-200", "0"),
		raw("SO-2", "EMPTY", "5"),
	})

	require.NoError(t, err)
	assert.Equal(t, ImportResult{Total: 4, Imported: 3, Duplicates: 1, OK: 1, Errors: 1, MissRoute: 1, Accuracy: 66.7}, res)
	st.AssertExpectations(t)
}

func TestImport_AllDuplicates(t *testing.T) {
	st := new(MockStore)
	o := storage.OrderRecord{OrderNumber: "SO-1", DocType: "一般單", ItemCode: "AC-200", ItemName: "立牌", Quantity: 10, DeliveryDate: "2026-10-30"}
	st.On("FetchDailyOrdersByNumbers", mock.Anything, []string{"SO-1"}).Return([]storage.OrderRecord{o}, nil)

	res, err := NewService(slog.Default(), st, staticSnapshot{}).Import(context.Background(), []storage.RawOrder{raw("SO-1", "ac-200", "10")})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 0, res.Imported)
	st.AssertNotCalled(t, "ReplaceTempOrders", mock.Anything, mock.Anything)
}

func TestImport_StoreError(t *testing.T) {
	st := new(MockStore)
	st.On("FetchDailyOrdersByNumbers", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := NewService(slog.Default(), st, staticSnapshot{}).Import(context.Background(), []storage.RawOrder{raw("SO-1", "X", "1")})

	assert.ErrorContains(t, err, "timeout")
}

func TestListTemp_ErrorsFirst(t *testing.T) {
	st := new(MockStore)
	st.On("ListTempOrders", mock.Anything).Return([]storage.OrderRecord{
		{ID: 1, Status: storage.StatusOK},
		{ID: 2, Status: storage.StatusError},
		{ID: 3, Status: storage.StatusMissRoute},
		{ID: 4, Status: storage.StatusError},
	}, nil)

	list, err := NewService(slog.Default(), st, staticSnapshot{}).ListTemp(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 1, 3}, []int64{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
}

func TestUpdateTemp_Revalidates(t *testing.T) {
	st := new(MockStore)
	st.On("GetTempOrder", mock.Anything, int64(5)).Return(storage.OrderRecord{
		ID: 5, OrderNumber: "SO-5", ItemCode: "AC-200", Quantity: 0, DeliveryDate: "2026-10-30",
		Status: storage.StatusError, ErrorReason: validate.MsgQuantity,
	}, nil)
	st.On("UpdateTempOrder", mock.Anything, mock.MatchedBy(func(o storage.OrderRecord) bool {
		return o.ID == 5 && o.Quantity == 8 && o.Status == storage.StatusOK && o.ErrorReason == ""
	})).Return(nil)

	qty := storage.LooseValue("8")
	o, err := NewService(slog.Default(), st, staticSnapshot{}).UpdateTemp(context.Background(), 5, storage.OrderPatch{Quantity: &qty})

	require.NoError(t, err)
	assert.Equal(t, storage.StatusOK, o.Status)
	st.AssertExpectations(t)
}

func TestCommit(t *testing.T) {
	st := new(MockStore)
	st.On("ListTempOrders", mock.Anything).Return([]storage.OrderRecord{
		{ID: 1, OrderNumber: "SO-1", ItemCode: "AC-200", Quantity: 1, DeliveryDate: "2026-10-30"},
		{ID: 2, OrderNumber: "SO-2", ItemCode: "", Quantity: 1, DeliveryDate: "2026-10-30"},
	}, nil)
	st.On("CommitTempOrders", mock.Anything, mock.MatchedBy(func(orders []storage.OrderRecord) bool {
		return len(orders) == 2 && orders[1].Status == storage.StatusError && orders[1].ErrorReason != "" &&
			orders[0].ErrorReason == ""
	})).Return(nil)

	res, err := NewService(slog.Default(), st, staticSnapshot{}).Commit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, CommitResult{Moved: 2, OK: 1, Errors: 1}, res)
	st.AssertExpectations(t)
}

func TestReturnToTemp(t *testing.T) {
	st := new(MockStore)
	st.On("GetDailyOrder", mock.Anything, int64(9)).Return(storage.OrderRecord{
		ID: 9, OrderNumber: "SO-9", ItemCode: "XX", Quantity: 3, DeliveryDate: "2026-10-30", Status: storage.StatusError,
	}, nil)
	st.On("ReturnOrderToTemp", mock.Anything, int64(9), mock.MatchedBy(func(o storage.OrderRecord) bool {
		return o.ItemCode == "AC-200" && o.Status == storage.StatusOK && o.LogMsg == returnedNote
	})).Return(nil)

	code := "ac-200"
	_, err := NewService(slog.Default(), st, staticSnapshot{}).ReturnToTemp(context.Background(), 9, storage.OrderPatch{ItemCode: &code})

	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestReturnToTemp_NotAnErrorOrder(t *testing.T) {
	st := new(MockStore)
	st.On("GetDailyOrder", mock.Anything, int64(9)).Return(storage.OrderRecord{ID: 9, Status: storage.StatusOK}, nil)

	_, err := NewService(slog.Default(), st, staticSnapshot{}).ReturnToTemp(context.Background(), 9, storage.OrderPatch{})

	assert.ErrorIs(t, err, ErrNotInQueue)
}

func TestFixConversion(t *testing.T) {
	st := new(MockStore)
	st.On("GetDailyOrder", mock.Anything, int64(11)).Return(storage.OrderRecord{
		ID: 11, OrderNumber: "SO-11", ItemCode: "AC-200", Quantity: 3, DeliveryDate: "2026-10-30",
		Status: storage.StatusOK, ConversionStatus: storage.ConversionFailed, ConversionNote: "missing standard time: 燙金",
	}, nil)
	st.On("FixConversionFailure", mock.Anything, mock.MatchedBy(func(o storage.OrderRecord) bool {
		return o.ConversionStatus == storage.ConversionPending && o.ConversionNote == "" && o.PlateCount == "2"
	})).Return(nil)

	plates := storage.LooseValue("2")
	o, err := NewService(slog.Default(), st, staticSnapshot{}).FixConversion(context.Background(), 11, storage.OrderPatch{PlateCount: &plates})

	require.NoError(t, err)
	assert.Equal(t, storage.ConversionPending, o.ConversionStatus)
	st.AssertExpectations(t)
}

func TestFingerprintMatchesStoredOrder(t *testing.T) {
	stored := storage.OrderRecord{OrderNumber: "SO-1", DocType: "一般單", ItemCode: "AC-200", ItemName: "立牌", Quantity: 10, DeliveryDate: "2026-10-30"}
	incoming := raw("SO-1", " ac-200", "10")

	assert.True(t, fingerprint.IsDuplicate(
		fingerprint.Of(normalize.FromRaw(incoming)),
		fingerprint.NewSet([]storage.OrderRecord{stored}),
	))
}
