package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/planning"
)

// Archiver сохраняет результаты анализа в архив отчетов.
type Archiver struct {
	store ReportStore
}

// NewArchiver создает архиватор поверх хранилища отчетов.
func NewArchiver(store ReportStore) *Archiver {
	return &Archiver{store: store}
}

// Archive сериализует входные данные и отчет и сохраняет их.
func (a *Archiver) Archive(ctx context.Context, sessionID uuid.UUID, source models.ReportSource, input *planning.ManualInput, result planning.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var inputPayload json.RawMessage
	if input != nil {
		inputPayload, err = json.Marshal(input)
		if err != nil {
			return fmt.Errorf("marshal input: %w", err)
		}
	}

	_, err = a.store.Save(ctx, models.ArchivedReport{
		SessionID:      sessionID,
		Source:         source,
		Input:          inputPayload,
		Result:         payload,
		TotalFirstYear: result.Resources.Cost.FirstYear(),
	})
	return err
}
