package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"blogapi/internal/domain"
)

const mysqlErrDuplicateEntry = 1062

// UserRepository runs the parameterized SQL for the users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, avatar_url, bio, last_login, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.Bio, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts the user and returns the stored row. A duplicate username
// or email surfaces as a domain.ConflictError.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string, avatarURL, bio *string) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (username, email, password_hash, avatar_url, bio, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, NOW(), NOW())
    `, username, email, passwordHash, avatarURL, bio)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.User{}, domain.ConflictError{Resource: "user", Msg: "username or email already exists", Err: err}
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// GetByLogin looks a user up by email or username, for credential checks.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? OR username = ?", login, login)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user by login: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?", pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, pageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// Update rewrites the mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, id int64, username, email string, avatarURL, bio *string) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE users SET username = ?, email = ?, avatar_url = ?, bio = ?, updated_at = NOW()
        WHERE id = ?
    `, username, email, avatarURL, bio, id)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.User{}, domain.ConflictError{Resource: "user", Msg: "username or email already exists", Err: err}
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return domain.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// TouchLastLogin stamps a successful credential check. Best effort; callers
// may ignore the error.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = NOW() WHERE id = ?", id)
	return err
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
