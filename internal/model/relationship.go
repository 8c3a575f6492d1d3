package model

import "time"

// Relationship is a directed follow edge: FollowerID is subscribed to
// FollowedID's posts. The database enforces at most one edge per ordered
// (follower, followed) pair, and the service layer rejects self-follows.
type Relationship struct {
	ID         int64     `json:"id"`
	FollowerID int64     `json:"followerId"`
	FollowedID int64     `json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}
