package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"example.com/capacity-planner/console/internal/planning"
)

func decodeResult(t *testing.T, payload string) planning.Result {
	t.Helper()

	var result planning.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return result
}

func newRenderer(t *testing.T, mode string) Renderer {
	t.Helper()

	renderer, err := New(mode, NewMoney("¥", "zh-CN"), loadCatalog(t))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return renderer
}

func containers(sections []Section) []string {
	out := make([]string, 0, len(sections))
	for _, section := range sections {
		out = append(out, section.Container)
	}
	return out
}

func findSection(t *testing.T, sections []Section, container string) Section {
	t.Helper()

	for _, section := range sections {
		if section.Container == container {
			return section
		}
	}
	t.Fatalf("section %s not rendered", container)
	return Section{}
}

// TestNewRejectsUnknownMode проверяет отказ для неизвестной стратегии.
func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New("fancy", NewMoney("¥", "zh-CN"), loadCatalog(t)); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

// TestDetailedServersTotalTreatsMissingAsZero проверяет строку итогов при отсутствующей цене.
func TestDetailedServersTotalTreatsMissingAsZero(t *testing.T) {
	result := decodeResult(t, `{"resources": {"servers": {
		"primary": {"role": "主库", "count": 2, "total_price": 100},
		"replica": {"role": "从库"}
	}}}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	servers := findSection(t, sections, ContainerServers)
	footer := servers.Content[strings.Index(servers.Content, "<tfoot>"):]
	if !strings.Contains(footer, "¥100") {
		t.Fatalf("expected total ¥100 in footer, got %s", footer)
	}
	if !strings.Contains(footer, "2 台") {
		t.Fatalf("expected total count 2 in footer, got %s", footer)
	}
}

// TestDetailedSkipsEmptySections проверяет пропуск секций без данных.
func TestDetailedSkipsEmptySections(t *testing.T) {
	result := decodeResult(t, `{
		"architecture": {"architecture_type": "distributed", "node_count": 3},
		"resources": {"network": {"core_switch": {"role": "核心交换机", "count": 0}}}
	}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{ContainerArchitecture, ContainerCost}
	if diff := cmp.Diff(want, containers(sections)); diff != "" {
		t.Fatalf("unexpected sections (-want +got):\n%s", diff)
	}
	if !strings.Contains(sections[0].Content, "分布式架构") {
		t.Fatalf("expected architecture label, got %s", sections[0].Content)
	}
}

// TestBasicPipelineRendersAllContainers проверяет набор секций базовой стратегии.
func TestBasicPipelineRendersAllContainers(t *testing.T) {
	result := decodeResult(t, `{
		"architecture": {"architecture_type": "standalone"},
		"resources": {
			"servers": {"db": {"role": "数据库", "count": 1, "spec": "high", "config": {"cpu": 16}}},
			"network": {"average_bandwidth_mbps": 100, "recommended": "10GbE"},
			"storage": {"total_capacity_tb": 2.5},
			"cost": {"total_first_year": 1234567}
		}
	}`)

	sections, err := newRenderer(t, ModeBasic).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{
		ContainerArchitecture,
		ContainerServers,
		ContainerNetwork,
		ContainerStorage,
		ContainerCost,
		ContainerRecommendations,
	}
	if diff := cmp.Diff(want, containers(sections)); diff != "" {
		t.Fatalf("unexpected sections (-want +got):\n%s", diff)
	}

	if !strings.Contains(findSection(t, sections, ContainerServers).Content, "HIGH") {
		t.Fatal("expected upper-cased server spec")
	}
	if !strings.Contains(findSection(t, sections, ContainerCost).Content, "¥1,234,567") {
		t.Fatal("expected grouped first year cost")
	}
}

// TestHTMLEscapesBackendText проверяет экранирование текста бэкенда.
func TestHTMLEscapesBackendText(t *testing.T) {
	result := decodeResult(t, `{"recommendations": [{"type": "info", "title": "<b>x</b>", "content": "a & b"}]}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	content := findSection(t, sections, ContainerRecommendations).Content
	if strings.Contains(content, "<b>x</b>") {
		t.Fatalf("expected escaped title, got %s", content)
	}
	if !strings.Contains(content, "&lt;b&gt;x&lt;/b&gt;") {
		t.Fatalf("expected escaped title, got %s", content)
	}
}

// TestMarkdownDocument проверяет markdown-отчет с итогами и разделами стоимости.
func TestMarkdownDocument(t *testing.T) {
	result := decodeResult(t, `{
		"architecture": {"architecture_type": "hybrid", "confidence": 0.875},
		"resources": {
			"storage": {"primary_storage": {"role": "主存储", "capacity_tb": 4, "total_price": 8000}},
			"infrastructure": {"racks": {"count": 2, "total_price": 3000}, "ups": {"capacity_kw": 10, "total_price": 500}},
			"cost": {"breakdown": {"硬件成本": {"servers": 50000, "subtotal": 60000}}}
		}
	}`)

	sections, err := newRenderer(t, ModeMarkdown).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	doc := Document(sections)
	for _, want := range []string{
		"## 🏗️ 推荐架构",
		"87.5%",
		"| **合计** | **4 TB** | | | | **¥8,000** | |",
		"| **机柜** | 2 |",
		"| **UPS电源** | 10 |",
		"| **合计** | | | **¥3,500** | |",
		"| 服务器 | ¥50,000 |",
		"| **硬件小计** | **¥60,000** |",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected %q in document:\n%s", want, doc)
		}
	}
}

func footer(t *testing.T, section Section) string {
	t.Helper()

	idx := strings.Index(section.Content, "<tfoot>")
	if idx < 0 {
		t.Fatalf("expected totals row in %s, got %s", section.Container, section.Content)
	}
	return section.Content[idx:]
}

// TestDetailedNetworkTotalSkipsIdleDevices проверяет, что устройства с нулевым количеством не попадают в итог.
func TestDetailedNetworkTotalSkipsIdleDevices(t *testing.T) {
	result := decodeResult(t, `{"resources": {"network": {
		"average_bandwidth_mbps": 100,
		"core_switch": {"role": "核心交换机", "count": 2, "unit_price": 15000, "total_price": 30000},
		"firewall": {"role": "防火墙", "count": 1},
		"load_balancer": {"role": "负载均衡", "count": 0, "unit_price": 99999, "total_price": 99999}
	}}}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	network := findSection(t, sections, ContainerNetwork)
	if strings.Contains(network.Content, "负载均衡") {
		t.Fatalf("expected idle device to be hidden, got %s", network.Content)
	}
	if !strings.Contains(network.Content, "防火墙") {
		t.Fatalf("expected device without price to be listed, got %s", network.Content)
	}

	total := footer(t, network)
	if !strings.Contains(total, "¥30,000") {
		t.Fatalf("expected total ¥30,000 in footer, got %s", total)
	}
	if strings.Contains(total, "99,999") {
		t.Fatalf("expected idle device price to be excluded, got %s", total)
	}
}

// TestDetailedStorageTotalTreatsMissingAsZero проверяет итог хранилища при отсутствующей цене.
func TestDetailedStorageTotalTreatsMissingAsZero(t *testing.T) {
	result := decodeResult(t, `{"resources": {"storage": {
		"total_capacity_tb": 10,
		"primary_storage": {"role": "主存储", "capacity_tb": 4, "price_per_tb": 2000, "total_price": 8000},
		"backup_storage": {"role": "备份存储", "capacity_tb": 2.5}
	}}}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	storage := findSection(t, sections, ContainerStorage)
	if !strings.Contains(storage.Content, "备份存储") {
		t.Fatalf("expected backup storage row, got %s", storage.Content)
	}

	total := footer(t, storage)
	if !strings.Contains(total, "6.5 TB") {
		t.Fatalf("expected total capacity 6.5 TB in footer, got %s", total)
	}
	if !strings.Contains(total, "¥8,000") {
		t.Fatalf("expected total ¥8,000 in footer, got %s", total)
	}
}

// TestDetailedInfrastructureTotal проверяет итог инфраструктуры по всем позициям.
func TestDetailedInfrastructureTotal(t *testing.T) {
	result := decodeResult(t, `{"resources": {"infrastructure": {
		"racks": {"count": 2, "unit_price": 1500, "total_price": 3000},
		"ups": {"capacity_kw": 10, "total_price": 500},
		"cables": {"count": 40}
	}}}`)

	sections, err := newRenderer(t, ModeDetailed).Render(result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	infra := findSection(t, sections, ContainerInfrastructure)
	body := infra.Content[strings.Index(infra.Content, "<tbody>"):strings.Index(infra.Content, "</tbody>")]
	if got := strings.Count(body, "<tr>"); got != 3 {
		t.Fatalf("expected 3 infrastructure rows, got %d", got)
	}

	total := footer(t, infra)
	if !strings.Contains(total, "¥3,500") {
		t.Fatalf("expected total ¥3,500 in footer, got %s", total)
	}
}
