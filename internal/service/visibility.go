package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
)

// VisibilityResolver 根据关注关系计算某用户可见的内容
type VisibilityResolver interface {
	// ViewableTickets 自己的 Ticket ∪ 所关注用户的 Ticket
	ViewableTickets(ctx context.Context, viewerID string) ([]*model.Ticket, error)
	// ViewableReviews 自己写的 ∪ 自己 Ticket 下的 ∪ 所关注用户 Ticket 下的 Review
	ViewableReviews(ctx context.Context, viewerID string) ([]*model.Review, error)
	// Viewable 一次解析关注关系，同时返回两类内容
	Viewable(ctx context.Context, viewerID string) ([]*model.Ticket, []*model.Review, error)
}

type visibilityResolver struct {
	follows repository.FollowRepository
	tickets repository.TicketRepository
	reviews repository.ReviewRepository
}

func NewVisibilityResolver(follows repository.FollowRepository, tickets repository.TicketRepository, reviews repository.ReviewRepository) VisibilityResolver {
	return &visibilityResolver{follows: follows, tickets: tickets, reviews: reviews}
}

// circle 查看者本人加上其关注的用户
func (v *visibilityResolver) circle(ctx context.Context, viewerID string) ([]string, error) {
	ids, err := v.follows.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return append([]string{viewerID}, ids...), nil
}

func (v *visibilityResolver) ViewableTickets(ctx context.Context, viewerID string) ([]*model.Ticket, error) {
	authors, err := v.circle(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return v.tickets.List(ctx, repository.TicketFilter{UserIDs: authors})
}

func (v *visibilityResolver) ViewableReviews(ctx context.Context, viewerID string) ([]*model.Review, error) {
	authors, err := v.circle(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return v.reviews.ListVisible(ctx, viewerID, authors)
}

func (v *visibilityResolver) Viewable(ctx context.Context, viewerID string) ([]*model.Ticket, []*model.Review, error) {
	authors, err := v.circle(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	tickets, err := v.tickets.List(ctx, repository.TicketFilter{UserIDs: authors})
	if err != nil {
		return nil, nil, fmt.Errorf("list tickets: %w", err)
	}
	reviews, err := v.reviews.ListVisible(ctx, viewerID, authors)
	if err != nil {
		return nil, nil, fmt.Errorf("list reviews: %w", err)
	}
	return tickets, reviews, nil
}
