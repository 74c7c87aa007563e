package planning

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultConnections  = 1000
	DefaultGrowthRate   = 20.0
	DefaultSourceDBType = "MySQL"
)

var (
	validate = validator.New()

	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// FormFields - сырые значения формы ручного ввода.
type FormFields struct {
	DataSize    string `form:"data_size" json:"data_size"`
	TableCount  string `form:"table_count" json:"table_count"`
	QPS         string `form:"qps" json:"qps"`
	TPS         string `form:"tps" json:"tps"`
	Connections string `form:"connections" json:"connections"`
	GrowthRate  string `form:"growth_rate" json:"growth_rate"`
	HA          bool   `form:"ha" json:"ha"`
	DR          bool   `form:"dr" json:"dr"`
	RWSplit     bool   `form:"rw_split" json:"rw_split"`
}

// ManualInput - входные данные анализа, отправляемые в бэкенд.
type ManualInput struct {
	TotalDataSizeGB       float64  `json:"total_data_size_gb" validate:"gt=0"`
	TableCount            int      `json:"table_count" validate:"gte=0"`
	DatabaseCount         int      `json:"database_count" validate:"gte=1"`
	QPS                   int      `json:"qps" validate:"gte=0"`
	TPS                   int      `json:"tps" validate:"gte=0"`
	ConcurrentConnections int      `json:"concurrent_connections" validate:"gt=0"`
	NeedHighAvailability  bool     `json:"need_high_availability"`
	NeedDisasterRecovery  bool     `json:"need_disaster_recovery"`
	NeedReadWriteSplit    bool     `json:"need_read_write_split"`
	SourceDBTypes         []string `json:"source_db_types,omitempty" validate:"omitempty,dive,required"`
	MaxTableSizeGB        float64  `json:"max_table_size_gb" validate:"gte=0"`
	AvgTableSizeGB        float64  `json:"avg_table_size_gb" validate:"gte=0"`
	DataGrowthRate        float64  `json:"data_growth_rate"`
}

// BuildManualInput собирает ManualInput из полей формы с учетом значений
// по умолчанию и производных полей.
func BuildManualInput(fields FormFields) (ManualInput, error) {
	total := parseLenientFloat(fields.DataSize)
	tables := parseLenientInt(fields.TableCount)

	connections := parseLenientInt(fields.Connections)
	if connections == 0 {
		connections = DefaultConnections
	}

	growth := parseLenientFloat(fields.GrowthRate)
	if growth == 0 {
		growth = DefaultGrowthRate
	}

	divisor := tables
	if divisor == 0 {
		divisor = 1
	}

	input := ManualInput{
		TotalDataSizeGB:       total,
		TableCount:            tables,
		DatabaseCount:         DatabaseCount(tables),
		QPS:                   parseLenientInt(fields.QPS),
		TPS:                   parseLenientInt(fields.TPS),
		ConcurrentConnections: connections,
		NeedHighAvailability:  fields.HA,
		NeedDisasterRecovery:  fields.DR,
		NeedReadWriteSplit:    fields.RWSplit,
		SourceDBTypes:         []string{DefaultSourceDBType},
		MaxTableSizeGB:        total / 10,
		AvgTableSizeGB:        total / float64(divisor),
		DataGrowthRate:        growth,
	}

	if input.TotalDataSizeGB == 0 {
		return input, ErrNoDataSize
	}

	if err := Validate(input); err != nil {
		return input, err
	}

	return input, nil
}

// Validate проверяет структуру по тегам validate.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}

// DatabaseCount оценивает число баз данных: одна база на десять таблиц, минимум одна.
func DatabaseCount(tables int) int {
	count := int(math.Ceil(float64(tables) / 10))
	if count < 1 {
		return 1
	}
	return count
}

// parseLenientFloat разбирает числовой префикс строки; при ошибке возвращает 0.
func parseLenientFloat(value string) float64 {
	match := floatPrefix.FindString(strings.TrimSpace(value))
	if match == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0
	}
	return parsed
}

// parseLenientInt разбирает целый префикс строки; при ошибке возвращает 0.
func parseLenientInt(value string) int {
	match := intPrefix.FindString(strings.TrimSpace(value))
	if match == "" {
		return 0
	}
	parsed, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return parsed
}

func formatNumber(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
