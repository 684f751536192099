package service

import (
    "context"
    "errors"
    "fmt"

    "go.uber.org/zap"

    "github.com/d60-Lab/litreview/internal/model"
    "github.com/d60-Lab/litreview/internal/repository"
    "github.com/d60-Lab/litreview/pkg/logger"
)

// RelationshipService 关系链服务
type RelationshipService interface {
    // Follow 按用户名关注；不会建立反向关系
    Follow(ctx context.Context, followerID, targetUsername string) (*model.User, error)
    Unfollow(ctx context.Context, followerID, targetUserID string) error
    // ListFollowing / ListFollowers 用户不存在时返回 ErrUserNotFound
    ListFollowing(ctx context.Context, userID string) ([]*model.User, error)
    ListFollowers(ctx context.Context, userID string) ([]*model.User, error)
    IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type relationshipService struct {
    followRepo repository.FollowRepository
    userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
    return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, targetUsername string) (*model.User, error) {
    target, err := s.userRepo.FindByUsername(ctx, targetUsername)
    if errors.Is(err, repository.ErrNotFound) {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, fmt.Errorf("find user: %w", err)
    }
    if target.ID == followerID {
        return nil, ErrSelfFollow
    }
    err = s.followRepo.Create(ctx, followerID, target.ID)
    if errors.Is(err, repository.ErrDuplicate) {
        return nil, ErrDuplicateFollow
    }
    if err != nil {
        return nil, fmt.Errorf("create follow: %w", err)
    }
    logger.Info("user followed", zap.String("follower_id", followerID), zap.String("followee_id", target.ID))
    return target, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, targetUserID string) error {
    err := s.followRepo.Delete(ctx, followerID, targetUserID)
    if errors.Is(err, repository.ErrNotFound) {
        return ErrNotFollowing
    }
    if err != nil {
        return fmt.Errorf("delete follow: %w", err)
    }
    logger.Info("user unfollowed", zap.String("follower_id", followerID), zap.String("followee_id", targetUserID))
    return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string) ([]*model.User, error) {
    if err := s.ensureUser(ctx, userID); err != nil {
        return nil, err
    }
    ids, err := s.followRepo.ListFollowingIDs(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("list following: %w", err)
    }
    return s.userRepo.FindByIDs(ctx, ids)
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string) ([]*model.User, error) {
    if err := s.ensureUser(ctx, userID); err != nil {
        return nil, err
    }
    ids, err := s.followRepo.ListFollowerIDs(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("list followers: %w", err)
    }
    return s.userRepo.FindByIDs(ctx, ids)
}

// ensureUser 未知用户返回 ErrUserNotFound，而不是空列表
func (s *relationshipService) ensureUser(ctx context.Context, userID string) error {
    _, err := s.userRepo.FindByID(ctx, userID)
    if errors.Is(err, repository.ErrNotFound) {
        return ErrUserNotFound
    }
    if err != nil {
        return fmt.Errorf("find user: %w", err)
    }
    return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
    return s.followRepo.Exists(ctx, followerID, followeeID)
}
