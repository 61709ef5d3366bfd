// Package fingerprint вычисляет отпечаток заказа для отсева повторного импорта.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

// projection фиксирует набор и порядок полей отпечатка.
type projection struct {
	OrderNumber  string  `json:"order_number"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	Quantity     float64 `json:"quantity"`
	PlateCount   string  `json:"plate_count"`
	Customer     string  `json:"customer"`
	DocType      string  `json:"doc_type"`
	DeliveryDate string  `json:"delivery_date"`
	Designer     string  `json:"designer"`
	Handler      string  `json:"handler"`
	Issuer       string  `json:"issuer"`
}

// Of возвращает отпечаток заказа: sha256 от канонического JSON.
func Of(o storage.OrderRecord) string {
	n := normalize.Order(o)

	// json.Marshal структуры из строк и float64 не падает
	b, _ := json.Marshal(projection{
		OrderNumber:  n.OrderNumber,
		ItemCode:     n.ItemCode,
		ItemName:     n.ItemName,
		Quantity:     n.Quantity,
		PlateCount:   n.PlateCount,
		Customer:     n.Customer,
		DocType:      n.DocType,
		DeliveryDate: n.DeliveryDate,
		Designer:     n.Designer,
		Handler:      n.Handler,
		Issuer:       n.Issuer,
	})

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Set - множество отпечатков уже сохранённых заказов.
type Set map[string]struct{}

func NewSet(existing []storage.OrderRecord) Set {
	s := make(Set, len(existing))
	for _, o := range existing {
		s[Of(o)] = struct{}{}
	}
	return s
}

func (s Set) Add(fp string) {
	s[fp] = struct{}{}
}

// IsDuplicate - есть ли отпечаток в множестве.
func IsDuplicate(fp string, existing Set) bool {
	_, ok := existing[fp]
	return ok
}

// Filter отбрасывает входящие заказы, совпавшие с existing.
// Возвращает оставшиеся и число отброшенных.
func Filter(incoming []storage.OrderRecord, existing Set) ([]storage.OrderRecord, int) {
	kept := make([]storage.OrderRecord, 0, len(incoming))
	dropped := 0

	for _, o := range incoming {
		if IsDuplicate(Of(o), existing) {
			dropped++
			continue
		}
		kept = append(kept, o)
	}

	return kept, dropped
}

// OrderNumbers - уникальные номера заказов пакета, для выборки existing.
func OrderNumbers(orders []storage.OrderRecord) []string {
	seen := make(map[string]bool, len(orders))
	numbers := make([]string, 0, len(orders))

	for _, o := range orders {
		num := normalize.Text(o.OrderNumber)
		if num == "" || seen[num] {
			continue
		}
		seen[num] = true
		numbers = append(numbers, num)
	}

	return numbers
}
