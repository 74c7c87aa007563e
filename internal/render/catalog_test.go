package render

import "testing"

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()

	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

// TestLoadCatalog проверяет разбор встроенного каталога подписей.
func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := catalog.ArchitectureName("distributed"); got != "分布式架构" {
		t.Fatalf("unexpected architecture name %q", got)
	}
	if got := catalog.ArchitectureName("sharding"); got != "sharding" {
		t.Fatalf("expected unknown key to pass through, got %q", got)
	}
	if len(catalog.CostSections) != 4 {
		t.Fatalf("expected 4 cost sections, got %d", len(catalog.CostSections))
	}
	if catalog.Alert("no_data_size") == "no_data_size" {
		t.Fatal("expected alert text for no_data_size")
	}
}
