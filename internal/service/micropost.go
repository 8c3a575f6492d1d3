package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

const maxBodyLength = 140

// MicropostService owns posts and their ownership link.
type MicropostService struct {
	posts  repository.MicropostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewMicropostService creates a MicropostService.
func NewMicropostService(
	posts repository.MicropostRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MicropostService {
	return &MicropostService{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// Create validates and persists a new post for userID.
// The body must be 1–140 characters (counted as runes, not bytes) and the
// owner must exist.
func (s *MicropostService) Create(ctx context.Context, userID int64, body string) (*model.Micropost, error) {
	verr := &apperror.ValidationError{}
	if strings.TrimSpace(body) == "" {
		verr.Add("body", "body can't be blank")
	} else if utf8.RuneCountInString(body) > maxBodyLength {
		verr.Add("body", fmt.Sprintf("body is too long (maximum is %d characters)", maxBodyLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("service/micropost: checking owner %d: %w", userID, err)
	}

	post := &model.Micropost{UserID: userID, Body: body}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/micropost: creating post: %w", err)
	}

	s.logger.Info("micropost created",
		slog.Int64("postID", post.ID),
		slog.Int64("userID", userID),
	)
	return post, nil
}

// Destroy removes a single post.
func (s *MicropostService) Destroy(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/micropost: destroying post %d: %w", id, err)
	}

	s.logger.Info("micropost destroyed", slog.Int64("postID", id))
	return nil
}

// ListByUser returns all posts authored by userID, most recent first.
func (s *MicropostService) ListByUser(ctx context.Context, userID int64) ([]model.Micropost, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/micropost: listing posts of user %d: %w", userID, err)
	}
	return posts, nil
}
