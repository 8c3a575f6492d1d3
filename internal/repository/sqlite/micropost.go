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

// MicropostDB implements repository.MicropostRepository. Obtain one via
// DB.Microposts.
type MicropostDB struct {
	conn *sql.DB
}

// compile-time check that *MicropostDB implements repository.MicropostRepository
var _ repository.MicropostRepository = (*MicropostDB)(nil)

// postOrder is the one ordering every post listing uses: newest first,
// ties broken by id descending so the result is stable even when two posts
// share a timestamp. IDs are monotonic, so the tie-break equals
// insertion-order-descending.
const postOrder = `ORDER BY created_at DESC, id DESC`

// Create inserts a new micropost and fills in ID and CreatedAt.
// Owner existence is validated by the service layer; the foreign key on
// user_id is the backstop.
func (db *MicropostDB) Create(ctx context.Context, post *model.Micropost) error {
	post.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO microposts (user_id, body, created_at) VALUES (?, ?, ?)`,
		post.UserID,
		post.Body,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting micropost: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new micropost id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a single micropost.
func (db *MicropostDB) GetByID(ctx context.Context, id int64) (*model.Micropost, error) {
	var p model.Micropost
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, body, created_at FROM microposts WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Body, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("micropost", id)
		}
		return nil, fmt.Errorf("sqlite: getting micropost %d: %w", id, err)
	}
	return &p, nil
}

// ListByUser returns all posts authored by userID, newest first.
func (db *MicropostDB) ListByUser(ctx context.Context, userID int64) ([]model.Micropost, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, body, created_at FROM microposts
		 WHERE user_id = ? `+postOrder,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing microposts of user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Feed returns the aggregated feed for userID: every post authored by the
// user or by anyone the user currently follows, and nothing else. The
// follow-set is resolved inside the query, so the result is a consistent
// snapshot at the store's isolation level — an unfollow is visible on the
// very next Feed call.
func (db *MicropostDB) Feed(ctx context.Context, userID int64) ([]model.Micropost, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, body, created_at FROM microposts
		 WHERE user_id = ?
		    OR user_id IN (SELECT followed_id FROM relationships WHERE follower_id = ?)
		 `+postOrder,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying feed of user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Delete removes one micropost. Returns apperror.ErrNotFound if absent.
func (db *MicropostDB) Delete(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM microposts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting micropost %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("micropost", id)
	}
	return nil
}

// DeleteByUser removes every post authored by userID. Used by the user
// destroy cascade; deleting zero rows is not an error.
func (db *MicropostDB) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM microposts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting microposts of user %d: %w", userID, err)
	}
	return nil
}

func scanPosts(rows *sql.Rows) ([]model.Micropost, error) {
	posts := make([]model.Micropost, 0, 16)
	for rows.Next() {
		var p model.Micropost
		if err := rows.Scan(&p.ID, &p.UserID, &p.Body, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning micropost row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating microposts: %w", err)
	}
	return posts, nil
}
