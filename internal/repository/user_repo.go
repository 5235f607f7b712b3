package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id::text, email, password_hash, name, role, login_attempts, locked, created_at`

// UserRepository is the PostgreSQL-backed credential store.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, model.NormalizeEmail(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by email", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, email string, passwordHash string, name string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		model.NormalizeEmail(email), passwordHash, name, string(model.RoleUser)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, storeError("create user", err)
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET password_hash = $2, name = $3, role = $4, login_attempts = $5, locked = $6
		 WHERE id::text = $1`,
		u.ID, u.PasswordHash, u.Name, string(u.Role), u.LoginAttempts, u.Locked)
	if err != nil {
		return storeError("save user", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2 WHERE id::text = $1`, id, string(role))
	if err != nil {
		return storeError("set user role", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// RecordFailedLogin bumps the counter and sets the lock flag in a single
// statement. Locked rows are left untouched.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, maxAttempts int) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET login_attempts = login_attempts + 1,
		     locked = (login_attempts + 1 >= $2)
		 WHERE id::text = $1 AND NOT locked
		 RETURNING `+userColumns,
		id, maxAttempts))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.FindByID(ctx, id)
	}
	if err != nil {
		return model.User{}, storeError("record failed login", err)
	}
	return u, nil
}

// ResetLoginAttempts clears the counter of an unlocked account. A row locked
// since it was read is left as is and reported as ErrAccountLocked.
func (r *UserRepository) ResetLoginAttempts(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET login_attempts = 0 WHERE id::text = $1 AND NOT locked`, id)
	if err != nil {
		return storeError("reset login attempts", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return model.ErrAccountLocked
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.LoginAttempts, &u.Locked, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
