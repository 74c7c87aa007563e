package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client вызывает JSON API бэкенда планирования.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	trainClient *http.Client
}

// APIError - ошибка, которую вернул сам бэкенд в поле error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend responded with status %d", e.Status)
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// NewClient создает клиент бэкенда; обучение модели получает отдельный таймаут.
func NewClient(baseURL string, timeout, trainTimeout time.Duration) *Client {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: trimmedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		trainClient: &http.Client{
			Timeout: trainTimeout,
		},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.httpClient, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, client *http.Client, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	return c.do(ctx, client, method, path, bytes.NewReader(payload), "application/json", out)
}

// multipartFile описывает файл и дополнительные поля формы для загрузки.
type multipartFile struct {
	field  string
	name   string
	data   []byte
	values map[string]string
}

func (c *Client) sendMultipart(ctx context.Context, path string, file multipartFile, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(file.field, file.name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.data); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}

	for key, value := range file.values {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	return c.do(ctx, c.httpClient, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	request.Header.Set("Accept", "application/json")
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return newAPIError(response.StatusCode, payload)
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope errorEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Error != "" {
			return &APIError{Status: response.StatusCode, Message: envelope.Error}
		}
	}

	if out == nil || len(trimmed) == 0 {
		return nil
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

func newAPIError(status int, payload []byte) *APIError {
	var envelope errorEnvelope
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error != "" {
		return &APIError{Status: status, Message: envelope.Error}
	}

	message := strings.TrimSpace(string(payload))
	if message == "" || strings.HasPrefix(message, "<") {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}
