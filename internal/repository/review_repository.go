package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/litreview/internal/model"
)

// ReviewFilter 各条件之间为 AND；零值条件不参与过滤
type ReviewFilter struct {
	UserIDs  []string
	TicketID string
}

type ReviewRepository interface {
	// Create 同一用户对同一 Ticket 重复评论时返回 ErrDuplicate
	Create(ctx context.Context, review *model.Review) error
	// Update 覆盖可编辑字段：rating, headline, body
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*model.Review, error)
	// ListVisible 返回 authorID 写的评论 ∪ ticketOwnerIDs 名下 Ticket 收到的评论
	ListVisible(ctx context.Context, authorID string, ticketOwnerIDs []string) ([]*model.Review, error)
}

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) withPayload(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Ticket.User").Preload("Ticket.Photo")
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(review)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"rating":   review.Rating,
			"headline": review.Headline,
			"body":     review.Body,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var rv model.Review
	if err := r.withPayload(r.db.WithContext(ctx)).Where("id = ?", id).First(&rv).Error; err != nil {
		return nil, notFound(err)
	}
	return &rv, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]*model.Review, error) {
	q := r.withPayload(r.db.WithContext(ctx))
	if filter.UserIDs != nil {
		if len(filter.UserIDs) == 0 {
			return []*model.Review{}, nil
		}
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.TicketID != "" {
		q = q.Where("ticket_id = ?", filter.TicketID)
	}
	var res []*model.Review
	err := q.Order("created_at DESC").Order("id ASC").Find(&res).Error
	return res, err
}

func (r *reviewRepository) ListVisible(ctx context.Context, authorID string, ticketOwnerIDs []string) ([]*model.Review, error) {
	db := r.db.WithContext(ctx)
	cond := db.Where("user_id = ?", authorID)
	if len(ticketOwnerIDs) > 0 {
		owned := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Ticket{}).
			Select("id").
			Where("user_id IN ?", ticketOwnerIDs)
		cond = cond.Or("ticket_id IN (?)", owned)
	}
	var res []*model.Review
	err := r.withPayload(db.Model(&model.Review{})).
		Where(cond).
		Order("created_at DESC").Order("id ASC").
		Find(&res).Error
	return res, err
}
