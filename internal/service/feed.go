package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// FeedService computes the aggregated content feed.
//
// The feed of a user is exactly the posts authored by the user plus the
// posts of everyone the user currently follows, merged newest-first with
// ties broken by post ID descending. The follow-set is resolved at query
// time, so an unfollow takes effect on the very next call and a destroyed
// account's posts vanish from every feed at once.
type FeedService struct {
	posts  repository.MicropostRepository
	logger *slog.Logger
}

// NewFeedService creates a FeedService.
func NewFeedService(posts repository.MicropostRepository, logger *slog.Logger) *FeedService {
	return &FeedService{posts: posts, logger: logger}
}

// Feed returns the feed for userID. A user who follows nobody still sees
// their own posts; a user with no posts and no follows gets an empty slice,
// not an error.
func (s *FeedService) Feed(ctx context.Context, userID int64) ([]model.Micropost, error) {
	feed, err := s.posts.Feed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/feed: computing feed of user %d: %w", userID, err)
	}
	return feed, nil
}
