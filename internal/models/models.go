package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TodoFilter string

type ReportSource string

const (
	TodoFilterAll       TodoFilter = "all"
	TodoFilterActive    TodoFilter = "active"
	TodoFilterCompleted TodoFilter = "completed"

	ReportSourceImage  ReportSource = "image"
	ReportSourceManual ReportSource = "manual"
)

// ParseTodoFilter возвращает фильтр по строке; неизвестные значения означают "all".
func ParseTodoFilter(value string) TodoFilter {
	switch TodoFilter(value) {
	case TodoFilterActive:
		return TodoFilterActive
	case TodoFilterCompleted:
		return TodoFilterCompleted
	default:
		return TodoFilterAll
	}
}

type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type TodoStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type ArchivedReport struct {
	ID             uuid.UUID       `json:"id"`
	SessionID      uuid.UUID       `json:"session_id"`
	Source         ReportSource    `json:"source"`
	Input          json.RawMessage `json:"input,omitempty"`
	Result         json.RawMessage `json:"result"`
	TotalFirstYear float64         `json:"total_first_year"`
	CreatedAt      time.Time       `json:"created_at"`
}
