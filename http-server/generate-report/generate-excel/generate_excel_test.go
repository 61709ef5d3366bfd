package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	genexcel "printshop/internal/service/generate-excel"
	"printshop/internal/service/schedule"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateExcel(ctx context.Context, filter genexcel.Filter) ([]byte, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestGenerateReportExcel(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateExcel", mock.Anything, genexcel.Filter{From: "2026-10-19", To: "2026-10-25"}).Return([]byte("PK"), nil)

	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), gen).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/report/excel?from=2026-10-19&to=2026-10-25", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "PK", rr.Body.String())
}

func TestGenerateReportExcel_BadDate(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateExcel", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("service.generate_excel.GenerateExcel: board: %w", schedule.ErrInvalidDate))

	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), gen).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report/excel?from=x", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
