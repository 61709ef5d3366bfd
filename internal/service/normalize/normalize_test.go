package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printshop/internal/storage"
)

func TestItemCode(t *testing.T) {
	assert.Equal(t, "C-100", ItemCode("  c-100 "))
	assert.Equal(t, "AB12", ItemCode("ａｂ１２")) // полноширинный ввод
	assert.Equal(t, "", ItemCode("   "))
}

func TestNumber(t *testing.T) {
	cases := map[string]float64{
		"150":    150,
		" 2.5 ":  2.5,
		"3盤":     3,
		"１２":     12,
		"":       0,
		"n/a":    0,
		"-4":     -4,
		".5":     0.5,
		"1e2pcs": 100,
	}

	for in, want := range cases {
		assert.Equal(t, want, Number(in), "input %q", in)
	}
}

func TestFromRaw(t *testing.T) {
	o := FromRaw(storage.RawOrder{
		OrderNumber:  " A001 ",
		ItemCode:     " c-100",
		ItemName:     " 壓克力牌 ",
		Quantity:     "150",
		PlateCount:   " 2 ",
		DeliveryDate: "2026-10-20 ",
	})

	assert.Equal(t, "A001", o.OrderNumber)
	assert.Equal(t, "C-100", o.ItemCode)
	assert.Equal(t, "壓克力牌", o.ItemName)
	assert.Equal(t, 150.0, o.Quantity)
	assert.Equal(t, "2", o.PlateCount)
	assert.Equal(t, "2026-10-20", o.DeliveryDate)
	assert.Equal(t, storage.StatusPending, o.Status)
}

func TestApply(t *testing.T) {
	base := storage.OrderRecord{ID: 7, ItemCode: "X1", Quantity: 5, Customer: "ACME"}
	code := " y2 "
	qty := storage.LooseValue("12")

	got := Apply(base, storage.OrderPatch{ItemCode: &code, Quantity: &qty})

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Y2", got.ItemCode)
	assert.Equal(t, 12.0, got.Quantity)
	assert.Equal(t, "ACME", got.Customer)
}
