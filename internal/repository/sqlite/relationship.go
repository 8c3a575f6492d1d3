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

// RelationshipDB implements repository.RelationshipRepository. Obtain one
// via DB.Relationships.
type RelationshipDB struct {
	conn *sql.DB
}

// compile-time check that *RelationshipDB implements repository.RelationshipRepository
var _ repository.RelationshipRepository = (*RelationshipDB)(nil)

// Create inserts a follow edge. INSERT OR IGNORE against the unique
// (follower_id, followed_id) index makes the operation idempotent and
// race-safe: two concurrent follows of the same pair converge to one edge,
// and the loser simply reports created=false.
func (db *RelationshipDB) Create(ctx context.Context, rel *model.Relationship) (bool, error) {
	rel.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO relationships (follower_id, followed_id, created_at)
		 VALUES (?, ?, ?)`,
		rel.FollowerID,
		rel.FollowedID,
		rel.CreatedAt,
	)
	if err != nil {
		// A follow racing the destruction of either endpoint trips the
		// foreign key instead of creating an orphaned edge.
		if isForeignKeyViolation(err) {
			return false, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("relationship endpoint missing for %d->%d", rel.FollowerID, rel.FollowedID),
			}
		}
		return false, fmt.Errorf("sqlite: inserting relationship %d->%d: %w",
			rel.FollowerID, rel.FollowedID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		// Edge already existed.
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("sqlite: reading new relationship id: %w", err)
	}
	rel.ID = id

	return true, nil
}

// Delete removes the follower->followed edge if present. Deleting a
// nonexistent edge reports deleted=false and no error.
func (db *RelationshipDB) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting relationship %d->%d: %w",
			followerID, followedID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected > 0, nil
}

// Exists reports whether the follower->followed edge is present.
func (db *RelationshipDB) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM relationships WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking relationship %d->%d: %w",
			followerID, followedID, err)
	}
	return count > 0, nil
}

// The two role queries below are mirror images: a relationship row reaches
// its users either through followed_id ("users I follow") or follower_id
// ("users who follow me").

// Following returns every user that userID follows.
func (db *RelationshipDB) Following(ctx context.Context, userID int64) ([]model.User, error) {
	return db.queryRelatedUsers(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.salt, u.admin, u.created_at, u.updated_at
		 FROM users u
		 JOIN relationships r ON r.followed_id = u.id
		 WHERE r.follower_id = ?
		 ORDER BY u.id`,
		userID, "following")
}

// Followers returns every user that follows userID.
func (db *RelationshipDB) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	return db.queryRelatedUsers(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.salt, u.admin, u.created_at, u.updated_at
		 FROM users u
		 JOIN relationships r ON r.follower_id = u.id
		 WHERE r.followed_id = ?
		 ORDER BY u.id`,
		userID, "followers")
}

// DeleteAllForUser removes every edge where userID appears in either role.
// Invoked by the user destroy cascade.
func (db *RelationshipDB) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = ? OR followed_id = ?`,
		userID, userID); err != nil {
		return fmt.Errorf("sqlite: deleting relationships of user %d: %w", userID, err)
	}
	return nil
}

func (db *RelationshipDB) queryRelatedUsers(ctx context.Context, query string, userID int64, role string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %s of user %d: %w", role, userID, err)
	}
	defer rows.Close()

	users := make([]model.User, 0, 16)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Salt,
			&u.Admin, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s: %w", role, err)
	}
	return users, nil
}
