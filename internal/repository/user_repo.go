package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password, phone, location, image_url, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Location,
		&u.ImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		domain.NormalizeEmail(email),
	))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
}

// Create inserts u, assigning its id. A taken email yields domain.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = domain.NormalizeEmail(u.Email)

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password, phone, location, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Location,
		u.ImageURL,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

// Update applies the set fields of upd and returns the stored user.
func (r *UserRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate, now time.Time) (*domain.User, error) {
	sets := []string{"updated_at = $1"}
	args := []any{now}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone.Set {
		add("phone", upd.Phone.Ptr())
	}
	if upd.Location.Set {
		add("location", upd.Location.Ptr())
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *UserRepository) SetImageURL(ctx context.Context, id, imageURL string, now time.Time) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET image_url = $1, updated_at = $2 WHERE id = $3 RETURNING `+userColumns,
		imageURL, now, id,
	))
}
