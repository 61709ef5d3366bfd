package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"printshop/internal/constants"
)

// MinimumRunMinutes - минимум, который начисляется за любую операцию.
const MinimumRunMinutes = 20.0

const (
	BasisQuantity = "quantity"
	BasisPlates   = "plate count"
)

// Multiplier выбирает множитель нормы по станции.
func Multiplier(station string, quantity, plates float64) (float64, string) {
	switch {
	case strings.Contains(station, constants.PackingStation):
		return quantity, basis(BasisQuantity, quantity)
	case isPlateFirstStation(station):
		return platesOrQuantity(quantity, plates)
	default:
		// прочие станции считаются так же, как печать и лазер
		return platesOrQuantity(quantity, plates)
	}
}

func platesOrQuantity(quantity, plates float64) (float64, string) {
	if plates > 0 {
		return plates, basis(BasisPlates, plates)
	}
	return quantity, basis(BasisQuantity, quantity)
}

// TotalMinutes - норма × множитель, не меньше MinimumRunMinutes, два знака.
func TotalMinutes(stdTime, multiplier float64) float64 {
	raw := decimal.NewFromFloat(stdTime).Mul(decimal.NewFromFloat(multiplier))

	floor := decimal.NewFromFloat(MinimumRunMinutes)
	if raw.LessThan(floor) {
		raw = floor
	}

	total, _ := raw.Round(2).Float64()
	return total
}

// Calculate - множитель, текст основания и итоговые минуты одной операции.
func Calculate(station string, stdTime, quantity, plates float64) (total float64, basisText string) {
	m, basisText := Multiplier(station, quantity, plates)
	return TotalMinutes(stdTime, m), basisText
}

func isPlateFirstStation(station string) bool {
	for _, s := range constants.PlateFirstByName {
		if strings.Contains(station, s) {
			return true
		}
	}
	return false
}

func basis(kind string, n float64) string {
	return fmt.Sprintf("%s (%s)", kind, strconv.FormatFloat(n, 'f', -1, 64))
}
