package domain

// Task event types pushed to the owner's live connections.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

type TaskEvent struct {
	Type   string `json:"type"`
	Task   *Task  `json:"task,omitempty"`
	TaskID string `json:"taskId,omitempty"`
}
