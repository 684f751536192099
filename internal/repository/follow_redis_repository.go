package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisFollowRepository 每个用户持有两个有序集合：
//   following:{id} 我关注的人，followers:{id} 关注我的人，score 为关注时间
type redisFollowRepository struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisFollowRepository 基于 Redis 有序集合的关系链存储
func NewRedisFollowRepository(rdb *redis.Client) FollowRepository {
	return &redisFollowRepository{rdb: rdb, now: time.Now}
}

func followingKey(userID string) string { return fmt.Sprintf("following:%s", userID) }
func followersKey(userID string) string { return fmt.Sprintf("followers:%s", userID) }

func (r *redisFollowRepository) Create(ctx context.Context, followerID, followeeID string) error {
	score := float64(r.now().UnixNano())
	var added *redis.IntCmd
	// MULTI/EXEC：两侧集合一起落地；ZADD NX 保证并发重复关注只有一个成功
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		added = p.ZAddNX(ctx, followingKey(followerID), redis.Z{Score: score, Member: followeeID})
		p.ZAddNX(ctx, followersKey(followeeID), redis.Z{Score: score, Member: followerID})
		return nil
	})
	if err != nil {
		return err
	}
	if added.Val() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *redisFollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	var removed *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		removed = p.ZRem(ctx, followingKey(followerID), followeeID)
		p.ZRem(ctx, followersKey(followeeID), followerID)
		return nil
	})
	if err != nil {
		return err
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *redisFollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	err := r.rdb.ZScore(ctx, followingKey(followerID), followeeID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisFollowRepository) ListFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	return r.rdb.ZRevRange(ctx, followingKey(followerID), 0, -1).Result()
}

func (r *redisFollowRepository) ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	return r.rdb.ZRevRange(ctx, followersKey(followeeID), 0, -1).Result()
}
