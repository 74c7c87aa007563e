package planning

// ServerTotals - итоговая строка таблицы серверов.
type ServerTotals struct {
	Count    int
	CPU      float64
	MemoryGB float64
	Price    float64
}

// NetworkTotals - итоговая строка таблицы сетевых устройств.
type NetworkTotals struct {
	Count int
	Price float64
}

// StorageTotals - итоговая строка таблицы хранилища.
type StorageTotals struct {
	CapacityTB float64
	Price      float64
}

// SumServers суммирует поля всех серверов; отсутствующие значения равны 0.
func SumServers(servers Ordered[Server]) ServerTotals {
	var totals ServerTotals
	for _, entry := range servers {
		totals.Count += entry.Value.Count
		totals.CPU += entry.Value.TotalCPU
		totals.MemoryGB += entry.Value.TotalMemoryGB
		totals.Price += entry.Value.TotalPrice
	}
	return totals
}

// SumNetwork суммирует сетевые устройства, пропуская записи с нулевым количеством.
func SumNetwork(devices Ordered[NetworkDevice]) NetworkTotals {
	var totals NetworkTotals
	for _, entry := range ActiveDevices(devices) {
		totals.Count += entry.Value.Count
		totals.Price += entry.Value.TotalPrice
	}
	return totals
}

// ActiveDevices возвращает устройства с ненулевым количеством.
func ActiveDevices(devices Ordered[NetworkDevice]) Ordered[NetworkDevice] {
	out := make(Ordered[NetworkDevice], 0, len(devices))
	for _, entry := range devices {
		if entry.Value.Count == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// SumStorage суммирует объем и стоимость детальных позиций хранилища.
func SumStorage(storage Storage) StorageTotals {
	var totals StorageTotals
	for _, entry := range storage.Items() {
		totals.CapacityTB += entry.Value.CapacityTB
		totals.Price += entry.Value.TotalPrice
	}
	return totals
}

// SumInfrastructure суммирует стоимость позиций инфраструктуры.
func SumInfrastructure(infra Infrastructure) float64 {
	var total float64
	for _, entry := range infra.Items() {
		total += entry.Value.TotalPrice
	}
	return total
}

// SumSection суммирует статьи раздела стоимости.
func SumSection(section CostSection) float64 {
	var total float64
	for _, value := range section {
		total += value
	}
	return total
}
