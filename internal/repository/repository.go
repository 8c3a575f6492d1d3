// Package repository declares the persistence interfaces the service layer
// depends on. The sqlite subpackage provides the storage-backed
// implementation; service tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/microblog/internal/model"
)

// UserRepository owns user identity records.
//
// Create must be atomic and return apperror.ErrConflict when the normalized
// email collides with an existing row — the database's uniqueness constraint
// is the last line of defence behind the service-level pre-check.
//
// Delete cascades: the user's microposts, every relationship touching the
// user in either role, and the user row itself go in one transaction.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetAdmin(ctx context.Context, id int64, admin bool) error
	Delete(ctx context.Context, id int64) error
}

// MicropostRepository owns posts and the feed query.
//
// Every returned sequence is ordered created_at DESC with ties broken by
// id DESC, so listings are stable even when two posts share a timestamp.
type MicropostRepository interface {
	Create(ctx context.Context, post *model.Micropost) error
	GetByID(ctx context.Context, id int64) (*model.Micropost, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Micropost, error)
	// Feed returns exactly the posts authored by userID or by anyone
	// userID currently follows — no more, no less.
	Feed(ctx context.Context, userID int64) ([]model.Micropost, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// RelationshipRepository owns the directed follow graph.
//
// Create is idempotent under the unique (follower, followed) index:
// inserting an edge that already exists reports created=false and no error,
// so concurrent duplicate follows converge to a single edge.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *model.Relationship) (created bool, err error)
	Delete(ctx context.Context, followerID, followedID int64) (deleted bool, err error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	Following(ctx context.Context, userID int64) ([]model.User, error)
	Followers(ctx context.Context, userID int64) ([]model.User, error)
	DeleteAllForUser(ctx context.Context, userID int64) error
}
