package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// RelationshipService maintains the directed follow graph.
//
// Graph invariants enforced here and in storage:
//   - no self-loops (rejected before any write)
//   - both endpoints must be existing users
//   - at most one edge per ordered (follower, followed) pair; the unique
//     index makes Follow idempotent even under concurrent duplicates
type RelationshipService struct {
	relationships repository.RelationshipRepository
	users         repository.UserRepository
	logger        *slog.Logger
}

// NewRelationshipService creates a RelationshipService.
func NewRelationshipService(
	relationships repository.RelationshipRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *RelationshipService {
	return &RelationshipService{
		relationships: relationships,
		users:         users,
		logger:        logger,
	}
}

// Follow creates the follower->followed edge.
//
// Following yourself is a validation error; following someone who does not
// exist is not-found. Following someone you already follow is a no-op, not
// an error — the operation is idempotent.
func (s *RelationshipService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return apperror.ValidationFailed("followed", "users cannot follow themselves")
	}

	if _, err := s.users.GetByID(ctx, followerID); err != nil {
		return fmt.Errorf("service/relationship: checking follower %d: %w", followerID, err)
	}
	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		return fmt.Errorf("service/relationship: checking followed %d: %w", followedID, err)
	}

	rel := &model.Relationship{FollowerID: followerID, FollowedID: followedID}
	created, err := s.relationships.Create(ctx, rel)
	if err != nil {
		return fmt.Errorf("service/relationship: following: %w", err)
	}

	if created {
		s.logger.Info("follow edge created",
			slog.Int64("follower", followerID),
			slog.Int64("followed", followedID),
		)
	}
	return nil
}

// Unfollow removes the follower->followed edge. Removing an edge that does
// not exist is a no-op.
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	deleted, err := s.relationships.Delete(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("service/relationship: unfollowing: %w", err)
	}

	if deleted {
		s.logger.Info("follow edge removed",
			slog.Int64("follower", followerID),
			slog.Int64("followed", followedID),
		)
	}
	return nil
}

// IsFollowing reports whether followerID currently follows followedID.
func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	ok, err := s.relationships.Exists(ctx, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("service/relationship: checking follow: %w", err)
	}
	return ok, nil
}

// Following returns every user that userID follows.
func (s *RelationshipService) Following(ctx context.Context, userID int64) ([]model.User, error) {
	users, err := s.relationships.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/relationship: listing following: %w", err)
	}
	return users, nil
}

// Followers returns every user that follows userID.
func (s *RelationshipService) Followers(ctx context.Context, userID int64) ([]model.User, error) {
	users, err := s.relationships.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/relationship: listing followers: %w", err)
	}
	return users, nil
}
