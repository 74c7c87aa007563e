package planning

import (
	"strings"
	"time"
)

// Значения входных данных кейса, которые форма кейса не собирает.
const (
	caseTableCount     = 100
	caseDatabaseCount  = 5
	caseMaxTableSizeGB = 100
	caseAvgTableSizeGB = 50
	caseReplicaCount   = 2

	DefaultEpochs = 50
	DefaultRating = 5
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Statistics - состояние обучающей выборки бэкенда.
type Statistics struct {
	TotalCases               int            `json:"total_cases"`
	TrainedCases             int            `json:"trained_cases"`
	ArchitectureDistribution map[string]int `json:"architecture_distribution"`
	DataSizeRange            Range          `json:"data_size_range"`
	QPSRange                 Range          `json:"qps_range"`
}

// CaseFields - поля формы добавления кейса.
type CaseFields struct {
	DataSize         string `form:"data_size" json:"data_size"`
	QPS              string `form:"qps" json:"qps"`
	ArchitectureType string `form:"architecture_type" json:"architecture_type"`
	NodeCount        string `form:"node_count" json:"node_count"`
	Feedback         string `form:"feedback" json:"feedback"`
}

// ArchitectureOutcome - фактическая архитектура кейса.
type ArchitectureOutcome struct {
	ArchitectureType string `json:"architecture_type" validate:"required"`
	NodeCount        int    `json:"node_count" validate:"gte=1"`
	ShardCount       int    `json:"shard_count" validate:"gte=1"`
	ReplicaCount     int    `json:"replica_count" validate:"gte=1"`
}

type CaseSubmission struct {
	Input    ManualInput         `json:"input"`
	Output   ArchitectureOutcome `json:"output"`
	Feedback string              `json:"feedback"`
}

type CaseReceipt struct {
	Success    bool       `json:"success"`
	CaseID     string     `json:"case_id"`
	Message    string     `json:"message,omitempty"`
	Statistics Statistics `json:"statistics"`
}

type TrainRequest struct {
	Epochs int `json:"epochs"`
}

type TrainResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BuildCase собирает кейс из формы. Поля, которых нет в форме, получают
// фиксированные значения.
func BuildCase(fields CaseFields) (CaseSubmission, error) {
	nodes := parseLenientInt(fields.NodeCount)
	if nodes == 0 {
		nodes = 1
	}

	submission := CaseSubmission{
		Input: ManualInput{
			TotalDataSizeGB:       parseLenientFloat(fields.DataSize),
			TableCount:            caseTableCount,
			DatabaseCount:         caseDatabaseCount,
			QPS:                   parseLenientInt(fields.QPS),
			ConcurrentConnections: DefaultConnections,
			NeedHighAvailability:  true,
			NeedDisasterRecovery:  false,
			NeedReadWriteSplit:    true,
			MaxTableSizeGB:        caseMaxTableSizeGB,
			AvgTableSizeGB:        caseAvgTableSizeGB,
			DataGrowthRate:        DefaultGrowthRate,
		},
		Output: ArchitectureOutcome{
			ArchitectureType: strings.TrimSpace(fields.ArchitectureType),
			NodeCount:        nodes,
			ShardCount:       nodes,
			ReplicaCount:     caseReplicaCount,
		},
		Feedback: fields.Feedback,
	}

	if submission.Input.TotalDataSizeGB == 0 {
		return submission, ErrNoDataSize
	}

	if err := Validate(submission.Input); err != nil {
		return submission, err
	}

	if err := Validate(submission.Output); err != nil {
		return submission, err
	}

	return submission, nil
}

// FeedbackFields - поля формы отзыва о прогнозе.
type FeedbackFields struct {
	Rating  int    `form:"rating" json:"rating"`
	Comment string `form:"comment" json:"comment"`
}

// Feedback - отзыв о текущем прогнозе. Actual заполняется, если известна
// фактическая архитектура: тогда бэкенд добавляет отзыв в обучающую выборку.
type Feedback struct {
	Timestamp string               `json:"timestamp"`
	Input     *ManualInput         `json:"input" validate:"-"`
	Predicted *Result              `json:"predicted" validate:"-"`
	Actual    *ArchitectureOutcome `json:"actual,omitempty" validate:"-"`
	Rating    int                  `json:"rating" validate:"gte=1,lte=5"`
	Comment   string               `json:"comment" validate:"required"`
}

type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	CaseID  string `json:"case_id,omitempty"`
}

// BuildFeedback собирает отзыв; комментарий обязателен, оценка по умолчанию 5.
func BuildFeedback(fields FeedbackFields, input *ManualInput, predicted *Result, now time.Time) (Feedback, error) {
	if strings.TrimSpace(fields.Comment) == "" {
		return Feedback{}, ErrEmptyComment
	}

	rating := fields.Rating
	if rating == 0 {
		rating = DefaultRating
	}

	feedback := Feedback{
		Timestamp: now.UTC().Format(time.RFC3339),
		Input:     input,
		Predicted: predicted,
		Rating:    rating,
		Comment:   fields.Comment,
	}

	if err := Validate(feedback); err != nil {
		return Feedback{}, err
	}

	return feedback, nil
}
