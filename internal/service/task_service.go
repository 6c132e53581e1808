package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	"github.com/google/uuid"
)

const (
	MsgInvalidTaskID = "Invalid task ID"
	MsgTaskNotFound  = "Task not found"
	MsgTaskDeleted   = "Task deleted successfully"
)

type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error)
	UpdateByOwner(ctx context.Context, ownerID, id string, upd domain.TaskUpdate, now time.Time) (*domain.Task, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}

// EventPublisher delivers task events to the owner's live connections.
type EventPublisher interface {
	Publish(userID string, event domain.TaskEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, domain.TaskEvent) {}

// TaskService is the only path to task data. Every call is scoped to ownerID.
type TaskService struct {
	store  TaskStore
	events EventPublisher
	now    func() time.Time
}

func NewTaskService(store TaskStore, events EventPublisher) *TaskService {
	if events == nil {
		events = nopPublisher{}
	}
	return &TaskService{store: store, events: events, now: time.Now}
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	tasks, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a task owned by ownerID regardless of what the payload claims.
func (s *TaskService) Create(ctx context.Context, ownerID string, in domain.TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, in, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.WithContext(ctx).Debug("task created", "task_id", task.ID)
	s.events.Publish(ownerID, domain.TaskEvent{Type: domain.EventTaskCreated, Task: task})
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	taskID, err := ParseTaskID(id)
	if err != nil {
		return nil, err
	}
	task, err := s.store.GetByOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, taskError(err)
	}
	return task, nil
}

// Update merges patch into the caller's task.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	taskID, err := ParseTaskID(id)
	if err != nil {
		return nil, err
	}
	upd, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	task, err := s.store.UpdateByOwner(ctx, ownerID, taskID, upd, s.now().UTC())
	if err != nil {
		return nil, taskError(err)
	}

	s.events.Publish(ownerID, domain.TaskEvent{Type: domain.EventTaskUpdated, Task: task})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	taskID, err := ParseTaskID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByOwner(ctx, ownerID, taskID); err != nil {
		return taskError(err)
	}

	s.events.Publish(ownerID, domain.TaskEvent{Type: domain.EventTaskDeleted, TaskID: taskID})
	return nil
}

// ParseTaskID validates a task id from a path parameter.
func ParseTaskID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewError(domain.ErrInvalidID, MsgInvalidTaskID)
	}
	return parsed.String(), nil
}

func taskError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, MsgTaskNotFound)
	}
	return fmt.Errorf("task store: %w", err)
}
