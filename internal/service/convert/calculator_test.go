package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name      string
		station   string
		qty       float64
		plates    float64
		wantMult  float64
		wantBasis string
	}{
		{"packing uses quantity even with plates", "包裝站", 150, 4, 150, "quantity (150)"},
		{"printing with plates", "印刷站2F", 150, 4, 4, "plate count (4)"},
		{"printing without plates", "印刷二廠", 150, 0, 150, "quantity (150)"},
		{"laser with plates", "雷切站", 30, 2.5, 2.5, "plate count (2.5)"},
		{"other station follows plates first", "後加工站", 30, 3, 3, "plate count (3)"},
		{"other station falls back to quantity", "後加工站", 30, 0, 30, "quantity (30)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, basis := Multiplier(tt.station, tt.qty, tt.plates)
			assert.Equal(t, tt.wantMult, m)
			assert.Equal(t, tt.wantBasis, basis)
		})
	}
}

func TestTotalMinutes_Floor(t *testing.T) {
	for _, std := range []float64{0, 0.01, 0.1, 1, 19.99} {
		for _, mult := range []float64{0, 1, 2, -5} {
			assert.GreaterOrEqual(t, TotalMinutes(std, mult), MinimumRunMinutes, "std=%v mult=%v", std, mult)
		}
	}
}

func TestTotalMinutes_Rounding(t *testing.T) {
	assert.Equal(t, 20.0, TotalMinutes(0.1, 150))
	assert.Equal(t, 37.04, TotalMinutes(0.1234567, 300))
	assert.Equal(t, 45.0, TotalMinutes(0.3, 150))
}

func TestCalculate_PrintingFloorExample(t *testing.T) {
	total, basis := Calculate("印刷二廠", 0.1, 150, 0)

	assert.Equal(t, 20.0, total)
	assert.Equal(t, "quantity (150)", basis)
}
