package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/sakif/microblog/internal/model"
)

// newTestDB returns a *DB backed by an in-memory database that lives only
// for this test.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser inserts a user with a derived unique email and fails the
// test on error.
func createTestUser(t *testing.T, db *DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "deadbeef",
		Salt:         "cafebabe",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %q: %v", name, err)
	}
	return user
}

// createTestPost inserts a micropost and fails the test on error.
func createTestPost(t *testing.T, db *DB, userID int64, body string) *model.Micropost {
	t.Helper()

	post := &model.Micropost{UserID: userID, Body: body}
	if err := db.Microposts().Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// follow creates a follow edge and fails the test on error.
func follow(t *testing.T, db *DB, followerID, followedID int64) {
	t.Helper()

	rel := &model.Relationship{FollowerID: followerID, FollowedID: followedID}
	if _, err := db.Relationships().Create(context.Background(), rel); err != nil {
		t.Fatalf("failed to create follow edge %d->%d: %v", followerID, followedID, err)
	}
}
