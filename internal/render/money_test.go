package render

import "testing"

// TestMoneyFormat проверяет группировку разрядов и нулевую сумму.
func TestMoneyFormat(t *testing.T) {
	money := NewMoney("¥", "zh-CN")

	cases := map[float64]string{
		0:       "¥0",
		100:     "¥100",
		1234567: "¥1,234,567",
	}
	for value, want := range cases {
		if got := money.Format(value); got != want {
			t.Fatalf("expected %s for %v, got %s", want, value, got)
		}
	}
}

// TestMoneyUnknownLocale проверяет запасную локаль.
func TestMoneyUnknownLocale(t *testing.T) {
	money := NewMoney("$", "???")

	if got := money.Format(2500); got != "$2,500" {
		t.Fatalf("expected $2,500, got %s", got)
	}
}
