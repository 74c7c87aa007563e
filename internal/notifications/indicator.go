package notifications

import "github.com/google/uuid"

// Indicator публикует начало и завершение запроса к бэкенду как SSE-события.
type Indicator struct {
	hub       *Hub
	sessionID uuid.UUID
}

// NewIndicator создает индикатор загрузки для сессии.
func NewIndicator(hub *Hub, sessionID uuid.UUID) Indicator {
	return Indicator{hub: hub, sessionID: sessionID}
}

func (i Indicator) Show(label string) {
	if i.hub == nil {
		return
	}
	i.hub.Publish(i.sessionID, Event{Type: EventLoading, Data: map[string]string{"label": label}})
}

func (i Indicator) Hide() {
	if i.hub == nil {
		return
	}
	i.hub.Publish(i.sessionID, Event{Type: EventSettled})
}
