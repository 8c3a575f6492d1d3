package service

import (
	"context"
	"slices"
	"testing"

	"github.com/sakif/microblog/internal/model"
)

func TestFeed(t *testing.T) {
	m := newMocks()
	posts := newTestMicropostService(m)
	rels := newTestRelationshipService(m)
	feeds := NewFeedService(m.posts, testLogger())

	owner := createNamedUser(t, m, "owner")
	followed := createNamedUser(t, m, "followed")
	stranger := createNamedUser(t, m, "stranger")

	p0, err := posts.Create(context.Background(), owner.ID, "my own post")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	p1, err := posts.Create(context.Background(), followed.ID, "from someone I follow")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := posts.Create(context.Background(), stranger.ID, "invisible"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := rels.Follow(context.Background(), owner.ID, followed.ID); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	feed, err := feeds.Feed(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if got, want := postIDs(feed), []int64{p1.ID, p0.ID}; !slices.Equal(got, want) {
		t.Errorf("feed = %v, want %v", got, want)
	}
}

func TestFeed_OwnPostsOnly(t *testing.T) {
	m := newMocks()
	posts := newTestMicropostService(m)
	feeds := NewFeedService(m.posts, testLogger())

	loner := createNamedUser(t, m, "loner")
	p, err := posts.Create(context.Background(), loner.ID, "talking to myself")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	feed, err := feeds.Feed(context.Background(), loner.ID)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 1 || feed[0].ID != p.ID {
		t.Errorf("feed = %v, want only the user's own post", postIDs(feed))
	}
}

func TestFeed_Empty(t *testing.T) {
	m := newMocks()
	feeds := NewFeedService(m.posts, testLogger())
	lurker := createNamedUser(t, m, "lurker")

	feed, err := feeds.Feed(context.Background(), lurker.ID)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %v, want empty", postIDs(feed))
	}
}

func TestFeed_UnfollowTakesEffectImmediately(t *testing.T) {
	m := newMocks()
	posts := newTestMicropostService(m)
	rels := newTestRelationshipService(m)
	feeds := NewFeedService(m.posts, testLogger())

	reader := createNamedUser(t, m, "reader")
	writer := createNamedUser(t, m, "writer")

	if _, err := posts.Create(context.Background(), writer.ID, "soon gone"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := rels.Follow(context.Background(), reader.ID, writer.ID); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	feed, err := feeds.Feed(context.Background(), reader.ID)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("len(feed) = %d, want 1 before unfollow", len(feed))
	}

	if err := rels.Unfollow(context.Background(), reader.ID, writer.ID); err != nil {
		t.Fatalf("Unfollow() error = %v", err)
	}

	feed, err = feeds.Feed(context.Background(), reader.ID)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %v after unfollow, want empty", postIDs(feed))
	}
}

func postIDs(posts []model.Micropost) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
