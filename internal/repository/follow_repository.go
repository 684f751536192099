package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/litreview/internal/model"
)

// FollowRepository 关系链存储：有向关注边
type FollowRepository interface {
    // Create 建立关注边；已存在时返回 ErrDuplicate
    Create(ctx context.Context, followerID, followeeID string) error
    // Delete 删除关注边；不存在时返回 ErrNotFound
    Delete(ctx context.Context, followerID, followeeID string) error
    Exists(ctx context.Context, followerID, followeeID string) (bool, error)
    // ListFollowingIDs 按关注时间倒序
    ListFollowingIDs(ctx context.Context, followerID string) ([]string, error)
    // ListFollowerIDs 按关注时间倒序
    ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error)
}

type followRepository struct {
    db *gorm.DB
}

// NewFollowRepository follows 表存正向边，fans 表存反向索引，两者同事务写入
func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
        // 唯一键冲突时不插入，RowsAffected 为 0 即重复关注；并发下同样成立
        res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(f)
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            return ErrDuplicate
        }
        fan := &model.Fan{ID: uuid.New().String(), UserID: followeeID, FanID: followerID, CreatedAt: f.CreatedAt}
        return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fan).Error
    })
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) error {
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
            Delete(&model.Follow{})
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            return ErrNotFound
        }
        return tx.Where("user_id = ? AND fan_id = ?", followeeID, followerID).Delete(&model.Fan{}).Error
    })
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
    var cnt int64
    if err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
        Count(&cnt).Error; err != nil {
        return false, err
    }
    return cnt > 0, nil
}

func (r *followRepository) ListFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Where("follower_id = ?", followerID).
        Order("created_at DESC").
        Pluck("followee_id", &ids).Error
    return ids, err
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.Fan{}).
        Where("user_id = ?", followeeID).
        Order("created_at DESC").
        Pluck("fan_id", &ids).Error
    return ids, err
}
