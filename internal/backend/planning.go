package backend

import (
	"context"
	"net/http"

	"example.com/capacity-planner/console/internal/planning"
)

// Analyze отправляет изображение на анализ.
func (c *Client) Analyze(ctx context.Context, name string, data []byte) (planning.Result, error) {
	var result planning.Result
	err := c.sendMultipart(ctx, "/api/analyze", multipartFile{field: "image", name: name, data: data}, &result)
	return result, err
}

// AnalyzeManual отправляет ручной ввод на анализ.
func (c *Client) AnalyzeManual(ctx context.Context, input planning.ManualInput) (planning.Result, error) {
	var result planning.Result
	err := c.sendJSON(ctx, c.httpClient, http.MethodPost, "/api/manual_input", input, &result)
	return result, err
}

// Recognize распознает изображение или таблицу и возвращает найденные поля.
func (c *Client) Recognize(ctx context.Context, name string, data []byte, mode planning.RecognitionMode) (planning.Recognition, error) {
	var rec planning.Recognition
	err := c.sendMultipart(ctx, "/api/recognize_file", multipartFile{
		field:  "file",
		name:   name,
		data:   data,
		values: map[string]string{"mode": string(mode)},
	}, &rec)
	return rec, err
}

// Statistics возвращает статистику обучающей выборки.
func (c *Client) Statistics(ctx context.Context) (planning.Statistics, error) {
	var stats planning.Statistics
	err := c.getJSON(ctx, "/api/statistics", &stats)
	return stats, err
}

// SubmitCase добавляет кейс в обучающую выборку.
func (c *Client) SubmitCase(ctx context.Context, submission planning.CaseSubmission) (planning.CaseReceipt, error) {
	var receipt planning.CaseReceipt
	err := c.sendJSON(ctx, c.httpClient, http.MethodPost, "/api/submit_case", submission, &receipt)
	return receipt, err
}

// Train запускает обучение модели с отдельным таймаутом.
func (c *Client) Train(ctx context.Context, epochs int) (planning.TrainResult, error) {
	var result planning.TrainResult
	err := c.sendJSON(ctx, c.trainClient, http.MethodPost, "/api/train_model", planning.TrainRequest{Epochs: epochs}, &result)
	return result, err
}

// SubmitFeedback отправляет отзыв о прогнозе.
func (c *Client) SubmitFeedback(ctx context.Context, feedback planning.Feedback) (planning.Ack, error) {
	var ack planning.Ack
	err := c.sendJSON(ctx, c.httpClient, http.MethodPost, "/api/feedback", feedback, &ack)
	return ack, err
}
