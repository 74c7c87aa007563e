package planning

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/models"
)

const (
	labelAnalyzeImage  = "正在分析图片..."
	labelAnalyzeManual = "正在预测架构..."
	labelRecognize     = "正在智能识别文件内容..."
	labelSubmitCase    = "正在提交案例..."
	labelTrain         = "正在训练模型，请稍候..."
	labelFeedback      = "正在提交反馈..."
)

// API - операции бэкенда планирования.
type API interface {
	Analyze(ctx context.Context, name string, data []byte) (Result, error)
	AnalyzeManual(ctx context.Context, input ManualInput) (Result, error)
	Recognize(ctx context.Context, name string, data []byte, mode RecognitionMode) (Recognition, error)
	Statistics(ctx context.Context) (Statistics, error)
	SubmitCase(ctx context.Context, submission CaseSubmission) (CaseReceipt, error)
	Train(ctx context.Context, epochs int) (TrainResult, error)
	SubmitFeedback(ctx context.Context, feedback Feedback) (Ack, error)
}

// Archiver сохраняет успешные отчеты.
type Archiver interface {
	Archive(ctx context.Context, sessionID uuid.UUID, source models.ReportSource, input *ManualInput, result Result) error
}

// Coordinator проводит ввод пользователя через проверки к бэкенду и
// сохраняет результат в состоянии сессии.
type Coordinator struct {
	api        API
	archive    Archiver
	allowedExt []string
	logger     *slog.Logger
	now        func() time.Time
}

// NewCoordinator создает координатор; archive может быть nil.
func NewCoordinator(api API, archive Archiver, allowedExt []string, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		api:        api,
		archive:    archive,
		allowedExt: allowedExt,
		logger:     logger,
		now:        time.Now,
	}
}

// SelectFile проверяет изображение и делает его текущим выбором сессии.
// При ошибке прежний выбор сохраняется.
func (c *Coordinator) SelectFile(state *State, name string, data []byte) (SelectedFile, error) {
	file, err := SelectFile(name, data)
	if err != nil {
		return SelectedFile{}, err
	}

	state.setSelectedFile(file)
	return file, nil
}

// AnalyzeImage отправляет выбранное изображение на анализ.
func (c *Coordinator) AnalyzeImage(ctx context.Context, state *State) (Result, error) {
	file, ok := state.SelectedFile()
	if !ok {
		return Result{}, ErrNoFile
	}

	result, err := withIndicator(state, labelAnalyzeImage, func() (Result, error) {
		return c.api.Analyze(ctx, file.Name, file.Data)
	})
	if err != nil {
		return Result{}, err
	}

	state.setCurrent(result.ExtractedData, &result)
	c.archiveResult(ctx, state.SessionID(), models.ReportSourceImage, result.ExtractedData, result)
	return result, nil
}

// AnalyzeManualInput проверяет поля формы и отправляет ручной ввод на анализ.
// Без объема данных запрос не выполняется.
func (c *Coordinator) AnalyzeManualInput(ctx context.Context, state *State, fields FormFields) (Result, error) {
	state.SetForm(fields)

	input, err := BuildManualInput(fields)
	if err != nil {
		return Result{}, err
	}

	result, err := withIndicator(state, labelAnalyzeManual, func() (Result, error) {
		return c.api.AnalyzeManual(ctx, input)
	})
	if err != nil {
		return Result{}, err
	}

	state.setCurrent(&input, &result)
	c.archiveResult(ctx, state.SessionID(), models.ReportSourceManual, &input, result)
	return result, nil
}

// Recognize распознает файл и заполняет соответствующую форму сессии.
func (c *Coordinator) Recognize(ctx context.Context, state *State, name string, data []byte, mode RecognitionMode) (Recognition, error) {
	if len(data) == 0 {
		return Recognition{}, ErrNoFile
	}

	if err := CheckExtension(name, c.allowedExt); err != nil {
		return Recognition{}, err
	}

	rec, err := withIndicator(state, labelRecognize, func() (Recognition, error) {
		return c.api.Recognize(ctx, name, data, mode)
	})
	if err != nil {
		return Recognition{}, err
	}

	switch mode {
	case RecognitionCase:
		form := state.CaseForm()
		ApplyCaseRecognition(&form, rec.Data)
		state.SetCaseForm(form)
	default:
		form := state.Form()
		ApplyRecognition(&form, rec.Data)
		state.SetForm(form)
	}

	return rec, nil
}

// Statistics загружает статистику обучающей выборки.
func (c *Coordinator) Statistics(ctx context.Context) (Statistics, error) {
	return c.api.Statistics(ctx)
}

// SubmitCase отправляет кейс; после успеха форма кейса очищается.
func (c *Coordinator) SubmitCase(ctx context.Context, state *State, fields CaseFields) (CaseReceipt, error) {
	state.SetCaseForm(fields)

	submission, err := BuildCase(fields)
	if err != nil {
		return CaseReceipt{}, err
	}

	receipt, err := withIndicator(state, labelSubmitCase, func() (CaseReceipt, error) {
		return c.api.SubmitCase(ctx, submission)
	})
	if err != nil {
		return CaseReceipt{}, err
	}

	if receipt.Success {
		state.SetCaseForm(CaseFields{})
	}
	return receipt, nil
}

// Train запускает обучение модели; epochs <= 0 означает значение по умолчанию.
func (c *Coordinator) Train(ctx context.Context, state *State, epochs int) (TrainResult, error) {
	if epochs <= 0 {
		epochs = DefaultEpochs
	}

	return withIndicator(state, labelTrain, func() (TrainResult, error) {
		return c.api.Train(ctx, epochs)
	})
}

// SubmitFeedback отправляет отзыв о текущем прогнозе сессии.
func (c *Coordinator) SubmitFeedback(ctx context.Context, state *State, fields FeedbackFields) (Ack, error) {
	input, prediction := state.Current()

	feedback, err := BuildFeedback(fields, input, prediction, c.now())
	if err != nil {
		return Ack{}, err
	}

	return withIndicator(state, labelFeedback, func() (Ack, error) {
		return c.api.SubmitFeedback(ctx, feedback)
	})
}

func (c *Coordinator) archiveResult(ctx context.Context, sessionID uuid.UUID, source models.ReportSource, input *ManualInput, result Result) {
	if c.archive == nil {
		return
	}

	if err := c.archive.Archive(ctx, sessionID, source, input, result); err != nil {
		c.logger.Warn("failed to archive report",
			slog.String("session_id", sessionID.String()),
			slog.String("source", string(source)),
			slog.String("error", err.Error()),
		)
	}
}

func withIndicator[T any](state *State, label string, call func() (T, error)) (T, error) {
	indicator := state.Indicator()
	indicator.Show(label)
	defer indicator.Hide()

	return call()
}
