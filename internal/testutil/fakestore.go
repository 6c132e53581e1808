// Package testutil provides in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"

	"github.com/google/uuid"
)

// UserStore is an in-memory service.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string

	// Error injection
	GetErr    error
	CreateErr error
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	u.Email = domain.NormalizeEmail(u.Email)
	if _, taken := s.byEmail[u.Email]; taken {
		return domain.ErrConflict
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *UserStore) Update(_ context.Context, id string, upd domain.ProfileUpdate, now time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Email != nil && *upd.Email != u.Email {
		if _, taken := s.byEmail[*upd.Email]; taken {
			return nil, domain.ErrConflict
		}
		delete(s.byEmail, u.Email)
		s.byEmail[*upd.Email] = id
	}
	upd.Apply(&u, now)
	s.byID[id] = u
	return &u, nil
}

func (s *UserStore) SetImageURL(_ context.Context, id, imageURL string, now time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.ImageURL = &imageURL
	u.UpdatedAt = now
	s.byID[id] = u
	return &u, nil
}

// TaskStore is an in-memory service.TaskStore.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task

	ListErr error
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]domain.Task)}
}

func (s *TaskStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *TaskStore) GetByOwner(_ context.Context, ownerID, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *TaskStore) UpdateByOwner(_ context.Context, ownerID, id string, upd domain.TaskUpdate, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	upd.Apply(&t, now)
	s.tasks[id] = t
	return &t, nil
}

func (s *TaskStore) DeleteByOwner(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Len returns the number of stored tasks across all owners.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// AuditStore is an in-memory service.AuditStore.
type AuditStore struct {
	mu     sync.Mutex
	nextID int64
	logs   []domain.AuditLog

	CreateErr error
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.nextID++
	log.ID = s.nextID
	log.CreatedAt = time.Now().UTC()
	s.logs = append(s.logs, *log)
	return nil
}

func (s *AuditStore) ListByUser(_ context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AuditLog, 0)
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.logs[i].UserID == userID {
			l := s.logs[i]
			out = append(out, &l)
		}
	}
	return out, nil
}

// Actions returns the recorded actions for userID, oldest first.
func (s *AuditStore) Actions(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, l := range s.logs {
		if l.UserID == userID {
			out = append(out, l.Action)
		}
	}
	return out
}

// Publisher records published task events.
type Publisher struct {
	mu     sync.Mutex
	Events map[string][]domain.TaskEvent
}

func NewPublisher() *Publisher {
	return &Publisher{Events: make(map[string][]domain.TaskEvent)}
}

func (p *Publisher) Publish(userID string, event domain.TaskEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events[userID] = append(p.Events[userID], event)
}

func (p *Publisher) For(userID string) []domain.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.TaskEvent(nil), p.Events[userID]...)
}
