package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session — состояние одной браузерной сессии.
// Живёт только в памяти процесса: рестарт сервера сбрасывает все сессии.
type Session struct {
	ID            string
	Created       time.Time
	LastSeen      time.Time
	Authenticated bool
}

// Store определяет контракт хранилища сессий для слоя сервиса и хендлеров.
type Store interface {
	// Create создаёт новую неавторизованную сессию и возвращает её.
	Create() *Session

	// Get возвращает сессию по id и продлевает её TTL.
	// Для отсутствующей или истёкшей сессии возвращает nil.
	Get(id string) *Session

	// Authenticate помечает сессию авторизованной. Если сессии с таким id
	// ещё нет (клиент мог прислать свой id прямо в логине) — создаёт её.
	Authenticate(id string) *Session

	// Delete удаляет сессию. Отсутствующая сессия — не ошибка.
	Delete(id string)

	// PurgeExpired убирает истёкшие сессии, возвращает их количество.
	PurgeExpired() int
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time // подменяется в тестах
}

// NewMemoryStore создаёт in-memory хранилище со скользящим TTL.
// ttl <= 0 отключает истечение.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *memoryStore) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Created:  now,
		LastSeen: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

func (s *memoryStore) Get(id string) *Session {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil
	}
	sess.LastSeen = s.now()

	cp := *sess
	return &cp
}

func (s *memoryStore) Authenticate(id string) *Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		sess = &Session{ID: id, Created: now}
		s.sessions[id] = sess
	}
	sess.Authenticated = true
	sess.LastSeen = now

	cp := *sess
	return &cp
}

func (s *memoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *memoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// expired вызывается только под мьютексом.
func (s *memoryStore) expired(sess *Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(sess.LastSeen) > s.ttl
}
