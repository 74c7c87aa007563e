package planning

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestOrderedKeepsBackendOrder проверяет порядок записей и пропуск null и скаляров.
func TestOrderedKeepsBackendOrder(t *testing.T) {
	payload := `{"web":{"count":2,"total_price":100},"cache":null,"db":{"count":3},"total_price":500}`

	var servers Ordered[Server]
	if err := json.Unmarshal([]byte(payload), &servers); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	keys := make([]string, 0, len(servers))
	for _, entry := range servers {
		keys = append(keys, entry.Key)
	}

	if diff := cmp.Diff([]string{"web", "db"}, keys); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	if servers[1].Value.Count != 3 {
		t.Fatalf("expected db count 3, got %d", servers[1].Value.Count)
	}
}

// TestOrderedMarshalKeepsOrder проверяет запись в исходном порядке.
func TestOrderedMarshalKeepsOrder(t *testing.T) {
	servers := Ordered[Server]{
		{Key: "zeta", Value: Server{Count: 1}},
		{Key: "alpha", Value: Server{Count: 2}},
	}

	data, err := json.Marshal(servers)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded Ordered[Server]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if decoded[0].Key != "zeta" || decoded[1].Key != "alpha" {
		t.Fatalf("unexpected order %s, %s", decoded[0].Key, decoded[1].Key)
	}
}

// TestNetworkDecodesBothShapes проверяет разбор сводки и устройств из одного ключа.
func TestNetworkDecodesBothShapes(t *testing.T) {
	payload := `{
		"average_bandwidth_mbps": 120.5,
		"peak_bandwidth_mbps": 480,
		"recommended": "10GbE",
		"core_switch": {"role": "核心交换机", "count": 2, "config": {"model": "S6730", "speed": 10, "ports": 48}, "total_price": 80000},
		"firewall": {"role": "防火墙", "count": 0}
	}`

	var network Network
	if err := json.Unmarshal([]byte(payload), &network); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if network.PeakBandwidthMbps != 480 {
		t.Fatalf("unexpected peak bandwidth %v", network.PeakBandwidthMbps)
	}
	if network.Recommended != "10GbE" {
		t.Fatalf("unexpected recommendation %q", network.Recommended)
	}
	if len(network.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(network.Devices))
	}
	if network.Devices[0].Value.Config.Speed != "10" {
		t.Fatalf("expected numeric speed as text, got %q", network.Devices[0].Value.Config.Speed)
	}

	data, err := json.Marshal(network)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var again Network
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("expected re-encoded network to decode, got %v", err)
	}
	if again.PeakBandwidthMbps != 480 || len(again.Devices) != 2 {
		t.Fatalf("unexpected network after re-encode: %+v", again)
	}
}

// TestCostSectionFallsBackToBreakdown проверяет чтение разделов стоимости из breakdown.
func TestCostSectionFallsBackToBreakdown(t *testing.T) {
	payload := `{"breakdown":{"硬件成本":{"servers":1000,"storage":500}},"total":{"total_first_year":2000}}`

	var cost Cost
	if err := json.Unmarshal([]byte(payload), &cost); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	hardware := cost.Section(CostHardware)
	if hardware.Get("servers") != 1000 {
		t.Fatalf("unexpected hardware servers %v", hardware.Get("servers"))
	}
	if cost.Section(CostSoftware).Get("license") != 0 {
		t.Fatal("expected missing section to read as zero")
	}
	if cost.FirstYear() != 2000 {
		t.Fatalf("unexpected first year total %v", cost.FirstYear())
	}
}
