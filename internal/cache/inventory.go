package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	FeedKeyPrefix      = "feed:%d:%d"
	FollowersKeyPrefix = "followers:%d"
	FollowingKeyPrefix = "following:%d"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	FeedTTL    = 1 * time.Minute
	FollowsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey caches a page of the approved-posts feed.
func FeedKey(limit, offset int) string {
	return fmt.Sprintf(FeedKeyPrefix, limit, offset)
}

func FollowersKey(userID uint) string {
	return fmt.Sprintf(FollowersKeyPrefix, userID)
}

func FollowingKey(userID uint) string {
	return fmt.Sprintf(FollowingKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateFollows drops both directions of a follow edge's cached lists.
func InvalidateFollows(ctx context.Context, followerID, followeeID uint) {
	Invalidate(ctx, FollowingKey(followerID))
	Invalidate(ctx, FollowersKey(followeeID))
}

// InvalidateFeed drops all cached feed pages.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
