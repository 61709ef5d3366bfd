// Package normalize приводит текстовые поля заказа к каноническому виду.
// Все остальные компоненты получают уже нормализованные значения.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"printshop/internal/storage"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Text обрезает пробелы по краям.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// ItemCode - полноширинные символы в ASCII, trim, верхний регистр.
func ItemCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(width.Narrow.String(s)))
}

// Number разбирает числовой префикс строки ("3盤" -> 3).
// Пустая строка или отсутствие числа дают 0.
func Number(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(width.Narrow.String(s)))
	if m == "" {
		return 0
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}

// FromRaw строит запись заказа из загруженной строки.
func FromRaw(r storage.RawOrder) storage.OrderRecord {
	return Order(storage.OrderRecord{
		OrderNumber:  r.OrderNumber,
		DocType:      r.DocType,
		ItemCode:     r.ItemCode,
		ItemName:     r.ItemName,
		Quantity:     Number(string(r.Quantity)),
		DeliveryDate: r.DeliveryDate,
		PlateCount:   string(r.PlateCount),
		Designer:     r.Designer,
		Customer:     r.Customer,
		Handler:      r.Handler,
		Issuer:       r.Issuer,
		Status:       storage.StatusPending,
	})
}

// Order возвращает копию записи с нормализованными полями.
func Order(o storage.OrderRecord) storage.OrderRecord {
	o.OrderNumber = Text(o.OrderNumber)
	o.DocType = Text(o.DocType)
	o.ItemCode = ItemCode(o.ItemCode)
	o.ItemName = Text(o.ItemName)
	o.DeliveryDate = Text(o.DeliveryDate)
	o.PlateCount = Text(o.PlateCount)
	o.Designer = Text(o.Designer)
	o.Customer = Text(o.Customer)
	o.Handler = Text(o.Handler)
	o.Issuer = Text(o.Issuer)
	if math.IsNaN(o.Quantity) || math.IsInf(o.Quantity, 0) {
		o.Quantity = 0
	}

	return o
}

// Apply накладывает правку на запись и нормализует результат.
func Apply(o storage.OrderRecord, p storage.OrderPatch) storage.OrderRecord {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&o.OrderNumber, p.OrderNumber)
	set(&o.DocType, p.DocType)
	set(&o.ItemCode, p.ItemCode)
	set(&o.ItemName, p.ItemName)
	set(&o.DeliveryDate, p.DeliveryDate)
	set(&o.Designer, p.Designer)
	set(&o.Customer, p.Customer)
	set(&o.Handler, p.Handler)
	set(&o.Issuer, p.Issuer)
	if p.Quantity != nil {
		o.Quantity = Number(string(*p.Quantity))
	}
	if p.PlateCount != nil {
		o.PlateCount = string(*p.PlateCount)
	}

	return Order(o)
}
