package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// UserDB implements repository.UserRepository. Obtain one via DB.Users.
type UserDB struct {
	conn *sql.DB
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

const userColumns = `id, name, email, password_hash, salt, admin, created_at, updated_at`

// Create inserts a new user and fills in ID and timestamps on the passed
// struct. A duplicate email — whether it slipped past the service-level
// pre-check or raced another writer — comes back as apperror.ErrConflict.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, salt, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.Admin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email "+user.Email+" is already taken")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by ID. Returns apperror.ErrNotFound if absent.
func (db *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return db.scanUser(
		db.conn.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = ?`, id),
		id,
	)
}

// GetByEmail retrieves a user by normalized email.
// The caller is responsible for lower-casing the email first.
func (db *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Salt,
		&u.Admin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: "user not found with email " + email,
			}
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return &u, nil
}

// SetAdmin toggles the administrative flag.
func (db *UserDB) SetAdmin(ctx context.Context, id int64, admin bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET admin = ?, updated_at = ? WHERE id = ?`,
		admin, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting admin flag for user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// Delete removes a user and cascades to everything the user owns, in one
// transaction: the user's microposts, every relationship edge where the
// user is follower or followed, then the user row. A concurrent reader
// sees either the full pre-delete state or none of it.
func (db *UserDB) Delete(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM microposts WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting microposts of user %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = ? OR followed_id = ?`,
		id, id); err != nil {
		return fmt.Errorf("sqlite: deleting relationships of user %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		// Rollback via the deferred call; nothing was committed.
		return apperror.NotFound("user", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of user %d: %w", id, err)
	}
	return nil
}

func (db *UserDB) scanUser(row *sql.Row, id int64) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Salt,
		&u.Admin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return &u, nil
}
