package validate

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	validatesvc "printshop/internal/service/validate"
	"printshop/internal/storage"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(o storage.OrderRecord) validatesvc.Result {
	return m.Called(o).Get(0).(validatesvc.Result)
}

func TestValidateOrder(t *testing.T) {
	v := new(MockValidator)
	v.On("Validate", mock.MatchedBy(func(o storage.OrderRecord) bool {
		return o.ItemCode == "AC-200" && o.Quantity == 12
	})).Return(validatesvc.Result{Status: storage.StatusError, Reasons: []string{validatesvc.MsgDeliveryDate}})

	body := `{"order_number":"SO-1","item_code":" ac-200","quantity":"12 pcs"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/validate", strings.NewReader(body))
	rr := httptest.NewRecorder()

	ValidateOrder(slog.Default(), v).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp validatesvc.Result
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, storage.StatusError, resp.Status)
	assert.Equal(t, []string{validatesvc.MsgDeliveryDate}, resp.Reasons)
	v.AssertExpectations(t)
}

func TestValidateOrder_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/validate", strings.NewReader(`{`))
	rr := httptest.NewRecorder()

	ValidateOrder(slog.Default(), new(MockValidator)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
