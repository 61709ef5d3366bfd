package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
)

func order() storage.OrderRecord {
	return storage.OrderRecord{
		OrderNumber:  "SO-1001",
		DocType:      "一般單",
		ItemCode:     "AC-200",
		ItemName:     "壓克力立牌",
		Quantity:     150,
		DeliveryDate: "2026-10-30",
		PlateCount:   "2",
		Designer:     "Lin",
		Customer:     "ACME",
		Handler:      "Wu",
		Issuer:       "Chen",
	}
}

func TestOf_IgnoresItemCodeCaseAndWhitespace(t *testing.T) {
	a := order()
	b := order()
	b.ItemCode = "  ac-200 "
	b.Customer = " ACME"

	assert.Equal(t, Of(a), Of(b))
}

func TestOf_IgnoresNonSemanticFields(t *testing.T) {
	a := order()
	b := order()
	b.ID = 99
	b.Status = storage.StatusError
	b.LogMsg = "whatever"

	assert.Equal(t, Of(a), Of(b))
}

func TestOf_DiffersOnSemanticField(t *testing.T) {
	a := order()
	b := order()
	b.Quantity = 151

	assert.NotEqual(t, Of(a), Of(b))
}

func TestFilter(t *testing.T) {
	existing := NewSet([]storage.OrderRecord{order()})

	dup := order()
	dup.ItemCode = "ac-200"
	fresh := order()
	fresh.PlateCount = "3"

	kept, dropped := Filter([]storage.OrderRecord{dup, fresh}, existing)

	require.Len(t, kept, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "3", kept[0].PlateCount)
	assert.True(t, IsDuplicate(Of(dup), existing))
	assert.False(t, IsDuplicate(Of(fresh), existing))
}

func TestOrderNumbers(t *testing.T) {
	a, b, c := order(), order(), order()
	b.OrderNumber = " SO-1001 "
	c.OrderNumber = "SO-2002"

	assert.Equal(t, []string{"SO-1001", "SO-2002"}, OrderNumbers([]storage.OrderRecord{a, b, c}))
}
