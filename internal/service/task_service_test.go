package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskBody = `{
	"name":"Pay bills",
	"category":{"name":"finance","icon":"$","color":"#000"},
	"startDate":"2024-01-01","endDate":"2024-01-02",
	"priority":{"value":1,"isDefault":true}
}`

func newTaskFixture() (*TaskService, *testutil.TaskStore, *testutil.Publisher) {
	store := testutil.NewTaskStore()
	pub := testutil.NewPublisher()
	return NewTaskService(store, pub), store, pub
}

func taskInput(t *testing.T, body string) domain.TaskInput {
	t.Helper()
	var in domain.TaskInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func taskPatch(t *testing.T, body string) domain.TaskPatch {
	t.Helper()
	var p domain.TaskPatch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestCreateTaskOwnedByCaller(t *testing.T) {
	svc, _, pub := newTaskFixture()
	ctx := context.Background()

	spoofed := `{"userId":"` + uuid.NewString() + `",` + taskBody[1:]
	task, err := svc.Create(ctx, "alice", taskInput(t, spoofed))
	require.NoError(t, err)
	assert.Equal(t, "alice", task.UserID)
	assert.False(t, task.Completed)

	events := pub.For("alice")
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTaskCreated, events[0].Type)
}

func TestCreateTaskValidation(t *testing.T) {
	svc, store, _ := newTaskFixture()

	_, err := svc.Create(context.Background(), "alice", taskInput(t, `{"name":"x"}`))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, store.Len())
}

func TestTasksAreScopedToOwner(t *testing.T) {
	svc, store, pub := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", taskInput(t, taskBody))
	require.NoError(t, err)

	list, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, "bob", task.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, MsgTaskNotFound, domain.Message(err, ""))

	_, err = svc.Update(ctx, "bob", task.ID, taskPatch(t, `{"name":"mine now"}`))
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, "bob", task.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay bills", got.Name)
	assert.Equal(t, 1, store.Len())
	assert.Empty(t, pub.For("bob"))
}

func TestTaskInvalidID(t *testing.T) {
	svc, _, _ := newTaskFixture()
	ctx := context.Background()

	_, err := svc.Get(ctx, "alice", "123")
	require.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Equal(t, MsgInvalidTaskID, domain.Message(err, ""))

	_, err = svc.Update(ctx, "alice", "nope", taskPatch(t, `{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	assert.ErrorIs(t, svc.Delete(ctx, "alice", "nope"), domain.ErrInvalidID)
}

func TestUpdateTaskPartial(t *testing.T) {
	svc, _, pub := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", taskInput(t, taskBody))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice", task.ID, taskPatch(t, `{"completed":true,"note":"paid"}`))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "paid", *updated.Note)
	assert.Equal(t, "Pay bills", updated.Name)
	assert.Equal(t, task.Category, updated.Category)

	again, err := svc.Update(ctx, "alice", task.ID, taskPatch(t, `{"completed":true,"note":"paid"}`))
	require.NoError(t, err)
	assert.Equal(t, updated.CompletedAt, again.CompletedAt)

	_, err = svc.Update(ctx, "alice", task.ID, taskPatch(t, `{"category":{"name":"x"}}`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	types := []string{}
	for _, e := range pub.For("alice") {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{domain.EventTaskCreated, domain.EventTaskUpdated, domain.EventTaskUpdated}, types)
}

func TestDeleteTask(t *testing.T) {
	svc, store, pub := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", taskInput(t, taskBody))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", task.ID))
	assert.Equal(t, 0, store.Len())

	events := pub.For("alice")
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTaskDeleted, events[1].Type)
	assert.Equal(t, task.ID, events[1].TaskID)

	_, err = svc.Get(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
