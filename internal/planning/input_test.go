package planning

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDatabaseCount проверяет оценку числа баз данных.
func TestDatabaseCount(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 10: 1, 11: 2, 95: 10}
	for tables, want := range cases {
		if got := DatabaseCount(tables); got != want {
			t.Fatalf("tables %d: expected %d, got %d", tables, want, got)
		}
	}
}

// TestBuildManualInputRequiresDataSize проверяет отказ без объема данных.
func TestBuildManualInputRequiresDataSize(t *testing.T) {
	_, err := BuildManualInput(FormFields{DataSize: "abc", TableCount: "10"})
	if !errors.Is(err, ErrNoDataSize) {
		t.Fatalf("expected ErrNoDataSize, got %v", err)
	}
}

// TestBuildManualInputDefaults проверяет значения по умолчанию и производные поля.
func TestBuildManualInputDefaults(t *testing.T) {
	input, err := BuildManualInput(FormFields{DataSize: "500", TableCount: "11", HA: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := ManualInput{
		TotalDataSizeGB:       500,
		TableCount:            11,
		DatabaseCount:         2,
		ConcurrentConnections: 1000,
		NeedHighAvailability:  true,
		SourceDBTypes:         []string{"MySQL"},
		MaxTableSizeGB:        50,
		AvgTableSizeGB:        500.0 / 11,
		DataGrowthRate:        20,
	}

	if diff := cmp.Diff(want, input); diff != "" {
		t.Fatalf("unexpected input (-want +got):\n%s", diff)
	}
}

// TestBuildManualInputLenientNumbers проверяет разбор числового префикса.
func TestBuildManualInputLenientNumbers(t *testing.T) {
	input, err := BuildManualInput(FormFields{
		DataSize:    "1.5e3GB",
		TableCount:  "",
		QPS:         "12.9",
		Connections: "x",
		GrowthRate:  "35%",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if input.TotalDataSizeGB != 1500 {
		t.Fatalf("expected 1500, got %v", input.TotalDataSizeGB)
	}
	if input.QPS != 12 {
		t.Fatalf("expected qps 12, got %d", input.QPS)
	}
	if input.AvgTableSizeGB != 1500 {
		t.Fatalf("expected avg size over one table, got %v", input.AvgTableSizeGB)
	}
	if input.ConcurrentConnections != DefaultConnections {
		t.Fatalf("expected default connections, got %d", input.ConcurrentConnections)
	}
	if input.DataGrowthRate != 35 {
		t.Fatalf("expected growth 35, got %v", input.DataGrowthRate)
	}
}

// TestBuildManualInputRejectsNegative проверяет проверку тегов validate.
func TestBuildManualInputRejectsNegative(t *testing.T) {
	_, err := BuildManualInput(FormFields{DataSize: "100", QPS: "-5"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
