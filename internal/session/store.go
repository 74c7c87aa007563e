package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory собирает новый контекст сессии.
type Factory func(id uuid.UUID, now time.Time) *Context

// Store хранит контексты сессий и удаляет неактивные по TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Context
	ttl      time.Duration
	factory  Factory
	onEnd    func(*Context)
	now      func() time.Time
	logger   *slog.Logger

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewStore создает хранилище сессий.
func NewStore(ttl time.Duration, factory Factory, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Context),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnEnd задает обработчик, который вызывается при завершении сессии.
func (s *Store) OnEnd(fn func(*Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onEnd = fn
}

// Get возвращает активную сессию и продлевает ее.
func (s *Store) Get(id uuid.UUID) (*Context, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, false
	}

	now := s.now()
	if now.Sub(sess.LastSeen()) > s.ttl {
		s.End(id)
		return nil, false
	}

	sess.touch(now)
	return sess, true
}

// Create создает новую сессию со случайным идентификатором.
func (s *Store) Create() *Context {
	id := uuid.New()
	sess := s.factory(id, s.now())

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("session started", slog.String("session_id", id.String()))
	return sess
}

// End завершает сессию и очищает ее состояние.
func (s *Store) End(id uuid.UUID) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	onEnd := s.onEnd
	s.mu.Unlock()

	if !ok {
		return false
	}

	sess.Planning.Reset()
	if onEnd != nil {
		onEnd(sess)
	}

	s.logger.Info("session ended",
		slog.String("session_id", id.String()),
		slog.String("lifetime", s.now().Sub(sess.CreatedAt()).Round(time.Second).String()),
	)
	return true
}

// Sweep завершает сессии, неактивные дольше TTL, и возвращает их число.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	expired := make([]uuid.UUID, 0)
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.ttl {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	count := 0
	for _, id := range expired {
		if s.End(id) {
			count++
		}
	}
	return count
}

// Len возвращает число активных сессий.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// StartSweeper запускает периодическую очистку до вызова Stop.
func (s *Store) StartSweeper(interval time.Duration) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if count := s.Sweep(); count > 0 {
					s.logger.Info("expired sessions swept", slog.Int("count", count))
				}
			}
		}
	}()
}

// Stop останавливает очистку и ждет завершения горутины.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.done
	}
}
