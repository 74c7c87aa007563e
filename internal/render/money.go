package render

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money форматирует суммы с разделителями разрядов по локали.
type Money struct {
	symbol  string
	printer *message.Printer
}

// NewMoney создает форматтер; неизвестная локаль заменяется на zh-CN.
func NewMoney(symbol, locale string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.SimplifiedChinese
	}
	return Money{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Format возвращает сумму с символом валюты; ноль выводится как ¥0.
func (m Money) Format(value float64) string {
	return m.symbol + m.Grouped(value)
}

// Grouped возвращает число с разделителями разрядов и до трех знаков после запятой.
func (m Money) Grouped(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return m.printer.Sprintf("%d", int64(value))
	}
	return m.printer.Sprint(number.Decimal(value, number.MaxFractionDigits(3)))
}

// plain выводит число без разделителей и лишних нулей.
func plain(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
