package planning

import "fmt"

type RecognitionMode string

const (
	RecognitionPredict RecognitionMode = "predict"
	RecognitionCase    RecognitionMode = "case"
)

// ParseRecognitionMode возвращает режим распознавания; пустая строка означает predict.
func ParseRecognitionMode(value string) (RecognitionMode, error) {
	switch RecognitionMode(value) {
	case "", RecognitionPredict:
		return RecognitionPredict, nil
	case RecognitionCase:
		return RecognitionCase, nil
	default:
		return "", fmt.Errorf("%w: unknown recognition mode %q", ErrInvalidInput, value)
	}
}

// RecognizedFields - частично заполненные поля, извлеченные из файла.
type RecognizedFields struct {
	TotalDataSizeGB       float64 `json:"total_data_size_gb"`
	TableCount            float64 `json:"table_count"`
	QPS                   float64 `json:"qps"`
	TPS                   float64 `json:"tps"`
	ConcurrentConnections float64 `json:"concurrent_connections"`
	DataGrowthRate        float64 `json:"data_growth_rate"`
	NeedHighAvailability  *bool   `json:"need_high_availability"`
	NeedDisasterRecovery  *bool   `json:"need_disaster_recovery"`
	NeedReadWriteSplit    *bool   `json:"need_read_write_split"`
	NodeCount             float64 `json:"node_count"`
	ArchitectureType      string  `json:"architecture_type"`
}

// Recognition - ответ бэкенда на распознавание файла.
type Recognition struct {
	Success bool             `json:"success"`
	Data    RecognizedFields `json:"data"`
	IsMock  bool             `json:"is_mock"`
}

// ApplyRecognition переносит в форму анализа только ненулевые значения;
// флажки меняются, только если бэкенд их прислал.
func ApplyRecognition(fields *FormFields, rec RecognizedFields) {
	setNumber(&fields.DataSize, rec.TotalDataSizeGB)
	setNumber(&fields.TableCount, rec.TableCount)
	setNumber(&fields.QPS, rec.QPS)
	setNumber(&fields.TPS, rec.TPS)
	setNumber(&fields.Connections, rec.ConcurrentConnections)
	setNumber(&fields.GrowthRate, rec.DataGrowthRate)

	if rec.NeedHighAvailability != nil {
		fields.HA = *rec.NeedHighAvailability
	}
	if rec.NeedDisasterRecovery != nil {
		fields.DR = *rec.NeedDisasterRecovery
	}
	if rec.NeedReadWriteSplit != nil {
		fields.RWSplit = *rec.NeedReadWriteSplit
	}
}

// ApplyCaseRecognition переносит распознанные значения в форму кейса.
func ApplyCaseRecognition(fields *CaseFields, rec RecognizedFields) {
	setNumber(&fields.DataSize, rec.TotalDataSizeGB)
	setNumber(&fields.QPS, rec.QPS)
	setNumber(&fields.NodeCount, rec.NodeCount)
	if rec.ArchitectureType != "" {
		fields.ArchitectureType = rec.ArchitectureType
	}
}

func setNumber(dst *string, value float64) {
	if formatted := formatNumber(value); formatted != "" {
		*dst = formatted
	}
}
