package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
)

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) UpdateTemp(ctx context.Context, id int64, patch storage.OrderPatch) (storage.OrderRecord, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(storage.OrderRecord), args.Error(1)
}

func serve(u TempUpdater, path, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Put("/api/orders/temp/{id}", UpdateTempOrder(slog.Default(), u))

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUpdateTempOrder_Success(t *testing.T) {
	u := new(MockUpdater)
	u.On("UpdateTemp", mock.Anything, int64(7), mock.MatchedBy(func(p storage.OrderPatch) bool {
		return p.ItemCode != nil && *p.ItemCode == "AC-200" && p.Quantity == nil
	})).Return(storage.OrderRecord{ID: 7, ItemCode: "AC-200", Status: storage.StatusOK}, nil)

	rr := serve(u, "/api/orders/temp/7", `{"item_code":"AC-200"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp storage.OrderRecord
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, storage.StatusOK, resp.Status)
}

func TestUpdateTempOrder_NotFound(t *testing.T) {
	u := new(MockUpdater)
	u.On("UpdateTemp", mock.Anything, int64(8), mock.Anything).
		Return(storage.OrderRecord{}, fmt.Errorf("service.intake.UpdateTemp: %w", storage.ErrOrderNotFound))

	rr := serve(u, "/api/orders/temp/8", `{}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateTempOrder_BadID(t *testing.T) {
	rr := serve(new(MockUpdater), "/api/orders/temp/abc", `{}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
