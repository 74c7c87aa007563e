package planning

import (
	"sync"

	"github.com/google/uuid"
)

// Indicator показывает и скрывает индикатор загрузки на время запроса.
type Indicator interface {
	Show(label string)
	Hide()
}

type nopIndicator struct{}

func (nopIndicator) Show(string) {}
func (nopIndicator) Hide()       {}

// State - состояние планировщика одной сессии: выбранный файл, последний
// ввод и прогноз, черновики форм.
type State struct {
	mu         sync.RWMutex
	sessionID  uuid.UUID
	indicator  Indicator
	file       *SelectedFile
	input      *ManualInput
	prediction *Result
	form       FormFields
	caseForm   CaseFields
}

// NewState создает пустое состояние сессии.
func NewState(sessionID uuid.UUID, indicator Indicator) *State {
	if indicator == nil {
		indicator = nopIndicator{}
	}
	return &State{sessionID: sessionID, indicator: indicator}
}

func (s *State) SessionID() uuid.UUID {
	return s.sessionID
}

func (s *State) Indicator() Indicator {
	return s.indicator
}

// SelectedFile возвращает выбранный файл, если он есть.
func (s *State) SelectedFile() (SelectedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.file == nil {
		return SelectedFile{}, false
	}
	return *s.file, true
}

func (s *State) setSelectedFile(file SelectedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.file = &file
}

// Current возвращает последний отправленный ввод и полученный прогноз.
func (s *State) Current() (*ManualInput, *Result) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.input, s.prediction
}

func (s *State) setCurrent(input *ManualInput, prediction *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = input
	s.prediction = prediction
}

// Form возвращает черновик формы ручного ввода.
func (s *State) Form() FormFields {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.form
}

func (s *State) SetForm(form FormFields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = form
}

// CaseForm возвращает черновик формы кейса.
func (s *State) CaseForm() CaseFields {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.caseForm
}

func (s *State) SetCaseForm(form CaseFields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.caseForm = form
}

// Reset очищает состояние при завершении сессии.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.file = nil
	s.input = nil
	s.prediction = nil
	s.form = FormFields{}
	s.caseForm = CaseFields{}
}
