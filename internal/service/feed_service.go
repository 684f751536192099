package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
)

// FeedService 把 Ticket 与 Review 合并成按时间倒序的信息流
type FeedService interface {
	// GetFeed 查看者可见的全部内容
	GetFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error)
	// GetUserPosts 仅该用户自己发布的 Ticket 与 Review
	GetUserPosts(ctx context.Context, userID string) ([]model.FeedItem, error)
}

type feedService struct {
	visibility VisibilityResolver
	tickets    repository.TicketRepository
	reviews    repository.ReviewRepository
}

func NewFeedService(visibility VisibilityResolver, tickets repository.TicketRepository, reviews repository.ReviewRepository) FeedService {
	return &feedService{visibility: visibility, tickets: tickets, reviews: reviews}
}

func (s *feedService) GetFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error) {
	tickets, reviews, err := s.visibility.Viewable(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return compose(viewerID, tickets, reviews), nil
}

func (s *feedService) GetUserPosts(ctx context.Context, userID string) ([]model.FeedItem, error) {
	owner := []string{userID}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{UserIDs: owner})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	reviews, err := s.reviews.List(ctx, repository.ReviewFilter{UserIDs: owner})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return compose(userID, tickets, reviews), nil
}

// compose 合并并排序；viewerID 用于标记其已评论过的 Ticket
func compose(viewerID string, tickets []*model.Ticket, reviews []*model.Review) []model.FeedItem {
	reviewed := make(map[string]bool)
	items := make([]model.FeedItem, 0, len(tickets)+len(reviews))
	for _, r := range reviews {
		if r.UserID == viewerID {
			reviewed[r.TicketID] = true
		}
		items = append(items, model.ReviewItem(r))
	}
	for _, t := range tickets {
		item := model.TicketItem(t)
		item.Reviewed = reviewed[t.ID]
		items = append(items, item)
	}
	SortFeed(items)
	return items
}

// SortFeed 按 SortKey 倒序；时间相同时按实体 ID、再按类型正序，保证结果稳定
func SortFeed(items []model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.SortKey.Equal(b.SortKey) {
			return a.SortKey.After(b.SortKey)
		}
		if ai, bi := a.EntityID(), b.EntityID(); ai != bi {
			return ai < bi
		}
		return a.Kind < b.Kind
	})
}
