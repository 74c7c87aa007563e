package planning

import (
	"bytes"
	"encoding/json"
)

// Result - отчет бэкенда о емкости и стоимости развертывания.
type Result struct {
	ExtractedData   *ManualInput     `json:"extracted_data,omitempty"`
	Architecture    Architecture     `json:"architecture"`
	Resources       Resources        `json:"resources"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Architecture struct {
	ArchitectureType string  `json:"architecture_type"`
	NodeCount        int     `json:"node_count"`
	ShardCount       int     `json:"shard_count"`
	ReplicaCount     int     `json:"replica_count"`
	Confidence       float64 `json:"confidence"`
}

type Resources struct {
	Servers        Ordered[Server] `json:"servers"`
	Switches       Ordered[Switch] `json:"switches,omitempty"`
	Network        Network         `json:"network"`
	Storage        Storage         `json:"storage"`
	Infrastructure Infrastructure  `json:"infrastructure"`
	Cost           Cost            `json:"cost"`
	Summary        Summary         `json:"summary"`
}

type Server struct {
	Role          string       `json:"role"`
	Count         int          `json:"count"`
	Spec          string       `json:"spec"`
	Details       string       `json:"details"`
	Config        ServerConfig `json:"config"`
	UnitPrice     float64      `json:"unit_price"`
	TotalPrice    float64      `json:"total_price"`
	TotalCPU      float64      `json:"total_cpu"`
	TotalMemoryGB float64      `json:"total_memory_gb"`
	TotalDiskGB   float64      `json:"total_disk_gb"`
	TotalPowerW   float64      `json:"total_power_w"`
}

type ServerConfig struct {
	Model    string  `json:"model,omitempty"`
	CPU      float64 `json:"cpu"`
	MemoryGB float64 `json:"memory_gb"`
	DiskGB   float64 `json:"disk_gb"`
	Price    float64 `json:"price,omitempty"`
	PowerW   float64 `json:"power_w,omitempty"`
}

type Switch struct {
	Role    string       `json:"role"`
	Count   int          `json:"count"`
	Details string       `json:"details"`
	Config  DeviceConfig `json:"config"`
}

type DeviceConfig struct {
	Model string `json:"model,omitempty"`
	Ports int    `json:"ports,omitempty"`
	Speed Text   `json:"speed,omitempty"`
}

type NetworkDevice struct {
	Role       string       `json:"role"`
	Count      int          `json:"count"`
	Details    string       `json:"details"`
	Config     DeviceConfig `json:"config"`
	UnitPrice  float64      `json:"unit_price"`
	TotalPrice float64      `json:"total_price"`
}

// Network объединяет две формы ключа resources.network: сводку по полосе
// пропускания (базовый ответ) и перечень устройств (подробный ответ).
type Network struct {
	AverageBandwidthMbps float64
	PeakBandwidthMbps    float64
	Recommended          Text
	NetworkCards         Text
	Devices              Ordered[NetworkDevice]
}

type networkSummary struct {
	AverageBandwidthMbps float64 `json:"average_bandwidth_mbps,omitempty"`
	PeakBandwidthMbps    float64 `json:"peak_bandwidth_mbps,omitempty"`
	Recommended          Text    `json:"recommended,omitempty"`
	NetworkCards         Text    `json:"network_cards,omitempty"`
}

// UnmarshalJSON разбирает сводку и устройства из одного объекта.
func (n *Network) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Network{}
		return nil
	}

	var summary networkSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return err
	}

	var devices Ordered[NetworkDevice]
	if err := devices.UnmarshalJSON(data); err != nil {
		return err
	}

	*n = Network{
		AverageBandwidthMbps: summary.AverageBandwidthMbps,
		PeakBandwidthMbps:    summary.PeakBandwidthMbps,
		Recommended:          summary.Recommended,
		NetworkCards:         summary.NetworkCards,
		Devices:              devices,
	}
	return nil
}

// MarshalJSON записывает сводку и устройства обратно в один объект.
func (n Network) MarshalJSON() ([]byte, error) {
	summary, err := json.Marshal(networkSummary{
		AverageBandwidthMbps: n.AverageBandwidthMbps,
		PeakBandwidthMbps:    n.PeakBandwidthMbps,
		Recommended:          n.Recommended,
		NetworkCards:         n.NetworkCards,
	})
	if err != nil {
		return nil, err
	}

	devices, err := n.Devices.MarshalJSON()
	if err != nil {
		return nil, err
	}

	// Оба значения - объекты: склеиваем их содержимое.
	summaryBody := bytes.TrimSuffix(bytes.TrimPrefix(summary, []byte("{")), []byte("}"))
	devicesBody := bytes.TrimSuffix(bytes.TrimPrefix(devices, []byte("{")), []byte("}"))

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(summaryBody)
	if len(summaryBody) > 0 && len(devicesBody) > 0 {
		buf.WriteByte(',')
	}
	buf.Write(devicesBody)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Storage struct {
	TotalCapacityTB float64      `json:"total_capacity_tb"`
	RawDataGB       float64      `json:"raw_data_gb,omitempty"`
	ReplicaCount    int          `json:"replica_count,omitempty"`
	StorageType     Text         `json:"storage_type,omitempty"`
	RaidLevel       Text         `json:"raid_level,omitempty"`
	GrowthReserve   Text         `json:"growth_reserve,omitempty"`
	Primary         *StorageItem `json:"primary_storage,omitempty"`
	Backup          *StorageItem `json:"backup_storage,omitempty"`
	Log             *StorageItem `json:"log_storage,omitempty"`
	TotalPrice      float64      `json:"total_price,omitempty"`
}

type StorageItem struct {
	Role       string        `json:"role"`
	CapacityTB float64       `json:"capacity_tb"`
	Details    string        `json:"details"`
	Config     StorageConfig `json:"config"`
	PricePerTB float64       `json:"price_per_tb"`
	TotalPrice float64       `json:"total_price"`
}

type StorageConfig struct {
	Type string  `json:"type"`
	IOPS float64 `json:"iops"`
}

// Items возвращает детальные позиции хранилища в фиксированном порядке.
func (s Storage) Items() []Entry[*StorageItem] {
	candidates := []Entry[*StorageItem]{
		{Key: "primary_storage", Value: s.Primary},
		{Key: "backup_storage", Value: s.Backup},
		{Key: "log_storage", Value: s.Log},
	}

	out := make([]Entry[*StorageItem], 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Value == nil {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

type Infrastructure struct {
	Racks        *InfraItem `json:"racks,omitempty"`
	PDU          *InfraItem `json:"pdu,omitempty"`
	UPS          *InfraItem `json:"ups,omitempty"`
	Cables       *InfraItem `json:"cables,omitempty"`
	TotalPowerKW float64    `json:"total_power_kw,omitempty"`
	TotalPrice   float64    `json:"total_price,omitempty"`
}

type InfraItem struct {
	Count      float64 `json:"count,omitempty"`
	CapacityKW float64 `json:"capacity_kw,omitempty"`
	CapacityU  int     `json:"capacity_u,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	Details    string  `json:"details"`
}

// Items возвращает позиции инфраструктуры в порядке: стойки, PDU, ИБП, кабели.
func (i Infrastructure) Items() []Entry[*InfraItem] {
	candidates := []Entry[*InfraItem]{
		{Key: "racks", Value: i.Racks},
		{Key: "pdu", Value: i.PDU},
		{Key: "ups", Value: i.UPS},
		{Key: "cables", Value: i.Cables},
	}

	out := make([]Entry[*InfraItem], 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Value == nil {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

const (
	CostHardware        = "hardware"
	CostSoftware        = "software"
	CostDeployment      = "deployment"
	CostAnnualOperation = "annual_operation"
)

// breakdownKeys - ключи разделов в cost.breakdown, как их называет бэкенд.
var breakdownKeys = map[string]string{
	CostHardware:        "硬件成本",
	CostSoftware:        "软件成本",
	CostDeployment:      "实施成本",
	CostAnnualOperation: "年度运维成本",
}

// CostSection - раздел стоимости; отсутствующая статья считается нулевой.
type CostSection map[string]float64

// Get возвращает статью раздела или 0.
func (s CostSection) Get(key string) float64 {
	if s == nil {
		return 0
	}
	return s[key]
}

type CostTotal struct {
	Hardware           float64 `json:"hardware"`
	Software           float64 `json:"software"`
	Deployment         float64 `json:"deployment"`
	FirstYearOperation float64 `json:"first_year_operation"`
	TotalFirstYear     float64 `json:"total_first_year"`
	AnnualOperation    float64 `json:"annual_operation"`
}

type Cost struct {
	HardwareCost      float64                `json:"hardware_cost,omitempty"`
	StorageCost       float64                `json:"storage_cost,omitempty"`
	AnnualMaintenance float64                `json:"annual_maintenance,omitempty"`
	TotalFirstYear    float64                `json:"total_first_year,omitempty"`
	Hardware          CostSection            `json:"hardware,omitempty"`
	Software          CostSection            `json:"software,omitempty"`
	Deployment        CostSection            `json:"deployment,omitempty"`
	AnnualOperation   CostSection            `json:"annual_operation,omitempty"`
	Breakdown         map[string]CostSection `json:"breakdown,omitempty"`
	Total             CostTotal              `json:"total"`
}

// Section возвращает раздел стоимости по ключу, при необходимости из breakdown.
func (c Cost) Section(key string) CostSection {
	var section CostSection
	switch key {
	case CostHardware:
		section = c.Hardware
	case CostSoftware:
		section = c.Software
	case CostDeployment:
		section = c.Deployment
	case CostAnnualOperation:
		section = c.AnnualOperation
	}
	if section != nil {
		return section
	}

	if name, ok := breakdownKeys[key]; ok && c.Breakdown != nil {
		return c.Breakdown[name]
	}
	return nil
}

// FirstYear возвращает итог первого года из подробной или базовой сводки.
func (c Cost) FirstYear() float64 {
	if c.Total.TotalFirstYear != 0 {
		return c.Total.TotalFirstYear
	}
	return c.TotalFirstYear
}

type Summary struct {
	DeploymentTime Text    `json:"deployment_time"`
	TotalServers   int     `json:"total_servers,omitempty"`
	TotalCPUCores  float64 `json:"total_cpu_cores,omitempty"`
	TotalMemoryGB  float64 `json:"total_memory_gb,omitempty"`
	TotalStorageTB float64 `json:"total_storage_tb,omitempty"`
	TotalCost      float64 `json:"total_cost,omitempty"`
}

type Recommendation struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
