package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// Hand-written in-memory mocks of the repository interfaces, in the same
// spirit as the sqlite implementations but with maps instead of tables.
// The three mocks share state through cross-references so the follow graph
// and the feed agree with each other.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mocks struct {
	users *mockUserRepo
	posts *mockPostRepo
	rels  *mockRelRepo
}

func newMocks() *mocks {
	users := &mockUserRepo{users: make(map[int64]*model.User)}
	rels := &mockRelRepo{edges: make(map[[2]int64]*model.Relationship), users: users}
	posts := &mockPostRepo{posts: make(map[int64]*model.Micropost), rels: rels}
	return &mocks{users: users, posts: posts, rels: rels}
}

// ---------------------------------------------------------------------------
// users

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email "+user.Email+" is already taken")
		}
	}
	m.nextID++
	user.ID = m.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found with email " + email}
}

func (m *mockUserRepo) SetAdmin(_ context.Context, id int64, admin bool) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Admin = admin
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// relationships

type mockRelRepo struct {
	edges  map[[2]int64]*model.Relationship
	users  *mockUserRepo
	nextID int64
}

var _ repository.RelationshipRepository = (*mockRelRepo)(nil)

func (m *mockRelRepo) Create(_ context.Context, rel *model.Relationship) (bool, error) {
	key := [2]int64{rel.FollowerID, rel.FollowedID}
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	m.nextID++
	rel.ID = m.nextID
	rel.CreatedAt = time.Now()
	stored := *rel
	m.edges[key] = &stored
	return true, nil
}

func (m *mockRelRepo) Delete(_ context.Context, followerID, followedID int64) (bool, error) {
	key := [2]int64{followerID, followedID}
	if _, ok := m.edges[key]; !ok {
		return false, nil
	}
	delete(m.edges, key)
	return true, nil
}

func (m *mockRelRepo) Exists(_ context.Context, followerID, followedID int64) (bool, error) {
	_, ok := m.edges[[2]int64{followerID, followedID}]
	return ok, nil
}

func (m *mockRelRepo) Following(ctx context.Context, userID int64) ([]model.User, error) {
	result := make([]model.User, 0)
	for key := range m.edges {
		if key[0] == userID {
			if u, err := m.users.GetByID(ctx, key[1]); err == nil {
				result = append(result, *u)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRelRepo) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	result := make([]model.User, 0)
	for key := range m.edges {
		if key[1] == userID {
			if u, err := m.users.GetByID(ctx, key[0]); err == nil {
				result = append(result, *u)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRelRepo) DeleteAllForUser(_ context.Context, userID int64) error {
	for key := range m.edges {
		if key[0] == userID || key[1] == userID {
			delete(m.edges, key)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// microposts

type mockPostRepo struct {
	posts  map[int64]*model.Micropost
	rels   *mockRelRepo
	nextID int64
}

var _ repository.MicropostRepository = (*mockPostRepo)(nil)

func (m *mockPostRepo) Create(_ context.Context, post *model.Micropost) error {
	m.nextID++
	post.ID = m.nextID
	post.CreatedAt = time.Now()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int64) (*model.Micropost, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("micropost", id)
	}
	result := *p
	return &result, nil
}

func (m *mockPostRepo) ListByUser(_ context.Context, userID int64) ([]model.Micropost, error) {
	result := make([]model.Micropost, 0)
	for _, p := range m.posts {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *mockPostRepo) Feed(ctx context.Context, userID int64) ([]model.Micropost, error) {
	visible := map[int64]bool{userID: true}
	for key := range m.rels.edges {
		if key[0] == userID {
			visible[key[1]] = true
		}
	}

	result := make([]model.Micropost, 0)
	for _, p := range m.posts {
		if visible[p.UserID] {
			result = append(result, *p)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("micropost", id)
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) DeleteByUser(_ context.Context, userID int64) error {
	for id, p := range m.posts {
		if p.UserID == userID {
			delete(m.posts, id)
		}
	}
	return nil
}

// sortNewestFirst applies the canonical listing order: created_at DESC,
// id DESC.
func sortNewestFirst(posts []model.Micropost) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
