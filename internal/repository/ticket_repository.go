package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/litreview/internal/model"
)

// TicketFilter 为空表示不过滤
type TicketFilter struct {
	UserIDs []string
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	// Update 覆盖可编辑字段：title, author, description, photo_id
	Update(ctx context.Context, ticket *model.Ticket) error
	// Delete 同一事务内级联删除该 Ticket 的全部 Review
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Ticket, error)
	// List 按 created_at 倒序、id 正序
	List(ctx context.Context, filter TicketFilter) ([]*model.Ticket, error)
}

type ticketRepository struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepository{db: db} }

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ticket).Error
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	res := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ?", ticket.ID).
		Updates(map[string]interface{}{
			"title":       ticket.Title,
			"author":      ticket.Author,
			"description": ticket.Description,
			"photo_id":    ticket.PhotoID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Ticket{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Photo").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]*model.Ticket, error) {
	q := r.db.WithContext(ctx).Preload("User").Preload("Photo")
	if filter.UserIDs != nil {
		if len(filter.UserIDs) == 0 {
			return []*model.Ticket{}, nil
		}
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	var res []*model.Ticket
	err := q.Order("created_at DESC").Order("id ASC").Find(&res).Error
	return res, err
}
