package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-marketplace/internal/database"
	"go-marketplace/internal/model"
)

// Users is the credential store contract.
type Users interface {
	Save(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
}

type UserRepository struct {
	db database.DBTX
}

var _ Users = (*UserRepository)(nil)

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const selectUser = `SELECT u.id, u.email, u.password_hash, u.name, u.phone_num, u.email_verified,
		        u.created_at, u.updated_at,
		        COALESCE(string_agg(a.authority_name, ',' ORDER BY a.authority_name), '')
		 FROM users u
		 LEFT JOIN user_authorities a ON a.user_id = u.id`

// Save inserts the user and its authorities. The unique index on lower(email)
// is the authoritative duplicate check.
func (r *UserRepository) Save(ctx context.Context, u model.User) (model.User, error) {
	now := time.Now().UTC()
	u.Email = strings.TrimSpace(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, name, phone_num, email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.Email, u.PasswordHash, u.Name, u.PhoneNum, u.EmailVerified, u.CreatedAt, u.UpdatedAt).
		Scan(&u.ID)
	if pgErrorCode(err) == pgUniqueViolation {
		return model.User{}, model.ErrDuplicatedEmail
	}
	if err != nil {
		return model.User{}, fmt.Errorf("save user: %w", err)
	}

	for _, authority := range u.Authorities {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO user_authorities (user_id, authority_name) VALUES ($1, $2)`,
			u.ID, authority); err != nil {
			return model.User{}, fmt.Errorf("save user authority: %w", err)
		}
	}

	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		selectUser+` WHERE lower(u.email) = lower($1) GROUP BY u.id`, strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE u.id = $1 GROUP BY u.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrNotFoundUser
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` GROUP BY u.id ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var authorities string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.PhoneNum, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt, &authorities)
	if err != nil {
		return model.User{}, err
	}

	u.Authorities = splitAuthorities(authorities)
	return u, nil
}

func splitAuthorities(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}
