package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/db"
	"github.com/IbnuAlii/GuulSideApp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))
	return pool
}

func createUser(t *testing.T, repo *UserRepository) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:         "Ann",
		Email:        uuid.NewString() + "@Example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	pool := testPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	u := createUser(t, repo)

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.NormalizeEmail(u.Email), got.Email)

	dup := &domain.User{Name: "Other", Email: u.Email, PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	phone := "555"
	updated, err := repo.Update(ctx, u.ID, domain.ProfileUpdate{Phone: domain.Some(phone)}, time.Now())
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555", *updated.Phone)
	assert.Equal(t, "Ann", updated.Name)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepositoryOwnership(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	tasks := NewTaskRepository(pool)
	ctx := context.Background()

	a := createUser(t, users)
	b := createUser(t, users)

	now := time.Now().UTC().Truncate(time.Millisecond)
	task := &domain.Task{
		UserID:    a.ID,
		Name:      "Pay bills",
		Category:  domain.Category{Name: "finance", Icon: "$", Color: "#000"},
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
		Priority:  domain.Priority{Value: 1, IsDefault: true},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, tasks.Create(ctx, task))

	list, err := tasks.ListByOwner(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, task.Category, list[0].Category)

	list, err = tasks.ListByOwner(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = tasks.GetByOwner(ctx, b.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "stolen"
	_, err = tasks.UpdateByOwner(ctx, b.ID, task.ID, domain.TaskUpdate{Name: &name}, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, tasks.DeleteByOwner(ctx, b.ID, task.ID), domain.ErrNotFound)

	done := true
	updated, err := tasks.UpdateByOwner(ctx, a.ID, task.ID, domain.TaskUpdate{Completed: &done}, now)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, "Pay bills", updated.Name)

	require.NoError(t, tasks.DeleteByOwner(ctx, a.ID, task.ID))
}

func TestAuditRepository(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	audit := NewAuditRepository(pool)
	ctx := context.Background()

	u := createUser(t, users)
	require.NoError(t, audit.Create(ctx, &domain.AuditLog{
		UserID:   u.ID,
		Action:   domain.AuditActionSignup,
		Category: domain.AuditCategoryAuth,
		Details:  map[string]any{"ip": "127.0.0.1"},
	}))

	logs, err := audit.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionSignup, logs[0].Action)
}
