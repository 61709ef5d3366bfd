package save

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

	"printshop/internal/service/sequence"
	"printshop/internal/storage"
)

type MockInserter struct {
	mock.Mock
}

func (m *MockInserter) Insert(ctx context.Context, sourceOrderID int64, point sequence.InsertionPoint, req sequence.NewOperation) ([]storage.ConvertedOperation, error) {
	args := m.Called(ctx, sourceOrderID, point, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ConvertedOperation), args.Error(1)
}

func serve(ins OperationInserter, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/orders/{id}/operations", InsertOperation(slog.Default(), ins))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders/5/operations", strings.NewReader(body)))
	return rr
}

func TestInsertOperation_After(t *testing.T) {
	ins := new(MockInserter)
	ins.On("Insert", mock.Anything, int64(5),
		sequence.InsertionPoint{Position: sequence.PositionAfter, AfterID: 11},
		sequence.NewOperation{OpName: "燙金"},
	).Return([]storage.ConvertedOperation{
		{ID: 11, Sequence: 10, OpName: "印刷"},
		{ID: 20, Sequence: 20, OpName: "燙金"},
		{ID: 12, Sequence: 30, OpName: "雷切"},
	}, nil)

	rr := serve(ins, `{"position":"after","after_id":11,"op_name":" 燙金 "}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp []storage.ConvertedOperation
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, []int{10, 20, 30}, []int{resp[0].Sequence, resp[1].Sequence, resp[2].Sequence})
	ins.AssertExpectations(t)
}

func TestInsertOperation_DefaultsToEnd(t *testing.T) {
	ins := new(MockInserter)
	ins.On("Insert", mock.Anything, int64(5), sequence.InsertionPoint{Position: sequence.PositionEnd}, mock.Anything).
		Return([]storage.ConvertedOperation{}, nil)

	rr := serve(ins, `{"op_name":"包裝"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	ins.AssertExpectations(t)
}

func TestInsertOperation_AnchorMissing(t *testing.T) {
	ins := new(MockInserter)
	ins.On("Insert", mock.Anything, int64(5), mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("service.sequence.Insert: %w", sequence.ErrAnchorNotFound))

	rr := serve(ins, `{"position":"after","after_id":99,"op_name":"包裝"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInsertOperation_MissingName(t *testing.T) {
	rr := serve(new(MockInserter), `{"position":"start"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
