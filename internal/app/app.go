// Package app 按配置组装存储、服务与 HTTP 处理器
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/api"
	"github.com/d60-Lab/litreview/internal/api/handler"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/internal/storage"
	"github.com/d60-Lab/litreview/pkg/database"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// App 持有进程内全部长生命周期依赖
type App struct {
	Config *config.Config
	DB     *gorm.DB
	// 仅当 relation.backend 为 redis 时非 nil
	Redis  *redis.Client
	Photos *storage.PhotoStore

	Users      service.UserService
	Relations  service.RelationshipService
	Content    service.ContentService
	Visibility service.VisibilityResolver
	Feed       service.FeedService
}

// New 打开并迁移数据库，关系链使用 redis 时建立连接，然后构建服务
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: db}

	follows, err := a.followRepository(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Photos, err = storage.NewPhotoStore(cfg.Storage.PhotoDir, cfg.Storage.MaxPhotoSize)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	users := repository.NewUserRepository(db)
	tickets := repository.NewTicketRepository(db)
	reviews := repository.NewReviewRepository(db)
	photos := repository.NewPhotoRepository(db)

	a.Users = service.NewUserService(users, cfg.JWT)
	a.Relations = service.NewRelationshipService(follows, users)
	a.Content = service.NewContentService(tickets, reviews, photos, a.Photos)
	a.Visibility = service.NewVisibilityResolver(follows, tickets, reviews)
	a.Feed = service.NewFeedService(a.Visibility, tickets, reviews)
	return a, nil
}

func (a *App) followRepository(ctx context.Context) (repository.FollowRepository, error) {
	switch a.Config.Relation.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		a.Redis = rdb
		logger.Info("relation backend: redis", zap.String("addr", a.Config.Redis.Addr))
		return repository.NewRedisFollowRepository(rdb), nil
	default:
		logger.Info("relation backend: db")
		return repository.NewFollowRepository(a.DB), nil
	}
}

// Handler 返回基于本 App 服务的 HTTP 处理器
func (a *App) Handler() *handler.Handler {
	return handler.NewHandler(a.Users, a.Relations, a.Content, a.Feed, a.Photos)
}

// Router 返回装配完成的 gin 引擎
func (a *App) Router() *gin.Engine {
	return api.NewRouter(a.Config, a.Handler())
}

// Close 释放 redis 与数据库连接
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}
