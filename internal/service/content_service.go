package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/storage"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// TicketInput 创建/修改 Ticket 的可编辑字段
type TicketInput struct {
	Title       string  `json:"title" validate:"required,max=128"`
	Author      *string `json:"author" validate:"omitempty,max=128"`
	Description string  `json:"description" validate:"max=2048"`
	PhotoID     *string `json:"photo_id"`
}

// ReviewInput 创建/修改 Review 的可编辑字段
type ReviewInput struct {
	Rating   *int   `json:"rating" validate:"required,min=0,max=5"`
	Headline string `json:"headline" validate:"required,max=128"`
	Body     string `json:"body" validate:"max=8192"`
}

func (in *TicketInput) clean() {
	in.Title = sanitize(in.Title)
	in.Author = sanitizePtr(in.Author)
	in.Description = sanitize(in.Description)
	if in.PhotoID != nil && *in.PhotoID == "" {
		in.PhotoID = nil
	}
}

func (in *ReviewInput) clean() {
	in.Headline = sanitize(in.Headline)
	in.Body = sanitize(in.Body)
}

// PhotoStore 图片内容存储
type PhotoStore interface {
	Save(r io.Reader) (string, error)
}

// ContentService Ticket / Review / Photo 的增删改查，写操作只允许所有者执行
type ContentService interface {
	CreateTicket(ctx context.Context, actorID string, in TicketInput) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, actorID, ticketID string, in TicketInput) (*model.Ticket, error)
	// DeleteTicket 同时删除该 Ticket 的全部 Review
	DeleteTicket(ctx context.Context, actorID, ticketID string) error
	GetTicket(ctx context.Context, ticketID string) (*model.Ticket, error)
	ListTickets(ctx context.Context, filter repository.TicketFilter) ([]*model.Ticket, error)

	CreateReview(ctx context.Context, actorID, ticketID string, in ReviewInput) (*model.Review, error)
	UpdateReview(ctx context.Context, actorID, reviewID string, in ReviewInput) (*model.Review, error)
	DeleteReview(ctx context.Context, actorID, reviewID string) error
	GetReview(ctx context.Context, reviewID string) (*model.Review, error)
	ListReviews(ctx context.Context, filter repository.ReviewFilter) ([]*model.Review, error)

	// CreateTicketWithReview 两份输入都校验通过后才写入
	CreateTicketWithReview(ctx context.Context, actorID string, ticket TicketInput, review ReviewInput) (*model.Ticket, *model.Review, error)

	UploadPhoto(ctx context.Context, actorID string, r io.Reader) (*model.Photo, error)
	GetPhoto(ctx context.Context, photoID string) (*model.Photo, error)
	DeletePhoto(ctx context.Context, actorID, photoID string) error
}

// ContentOption 可选配置
type ContentOption func(*contentService)

// WithClock 替换时间来源
func WithClock(now func() time.Time) ContentOption {
	return func(s *contentService) { s.now = now }
}

type contentService struct {
	tickets repository.TicketRepository
	reviews repository.ReviewRepository
	photos  repository.PhotoRepository
	store   PhotoStore
	now     func() time.Time
}

func NewContentService(
	tickets repository.TicketRepository,
	reviews repository.ReviewRepository,
	photos repository.PhotoRepository,
	store PhotoStore,
	opts ...ContentOption,
) ContentService {
	s := &contentService{tickets: tickets, reviews: reviews, photos: photos, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contentService) CreateTicket(ctx context.Context, actorID string, in TicketInput) (*model.Ticket, error) {
	in.clean()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.createTicket(ctx, actorID, in)
}

func (s *contentService) createTicket(ctx context.Context, actorID string, in TicketInput) (*model.Ticket, error) {
	if err := s.checkPhoto(ctx, actorID, in.PhotoID); err != nil {
		return nil, err
	}
	t := &model.Ticket{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		UserID:      actorID,
		PhotoID:     in.PhotoID,
		CreatedAt:   s.now(),
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	logger.Info("ticket created", zap.String("ticket_id", t.ID), zap.String("user_id", actorID))
	return s.GetTicket(ctx, t.ID)
}

func (s *contentService) UpdateTicket(ctx context.Context, actorID, ticketID string, in TicketInput) (*model.Ticket, error) {
	in.clean()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	t, err := s.ownTicket(ctx, actorID, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPhoto(ctx, actorID, in.PhotoID); err != nil {
		return nil, err
	}
	t.Title = in.Title
	t.Author = in.Author
	t.Description = in.Description
	t.PhotoID = in.PhotoID
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return s.GetTicket(ctx, t.ID)
}

func (s *contentService) DeleteTicket(ctx context.Context, actorID, ticketID string) error {
	if _, err := s.ownTicket(ctx, actorID, ticketID); err != nil {
		return err
	}
	err := s.tickets.Delete(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTicketNotFound
	}
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	logger.Info("ticket deleted", zap.String("ticket_id", ticketID), zap.String("user_id", actorID))
	return nil
}

func (s *contentService) GetTicket(ctx context.Context, ticketID string) (*model.Ticket, error) {
	t, err := s.tickets.FindByID(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

func (s *contentService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]*model.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

func (s *contentService) ownTicket(ctx context.Context, actorID, ticketID string) (*model.Ticket, error) {
	t, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID {
		return nil, ErrNotOwner
	}
	return t, nil
}

// checkPhoto Ticket 只能引用自己上传的图片
func (s *contentService) checkPhoto(ctx context.Context, actorID string, photoID *string) error {
	if photoID == nil {
		return nil
	}
	p, err := s.GetPhoto(ctx, *photoID)
	if err != nil {
		return err
	}
	if p.UploaderID != actorID {
		return ErrNotOwner
	}
	return nil
}

func (s *contentService) CreateReview(ctx context.Context, actorID, ticketID string, in ReviewInput) (*model.Review, error) {
	in.clean()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.createReview(ctx, actorID, ticketID, in)
}

func (s *contentService) createReview(ctx context.Context, actorID, ticketID string, in ReviewInput) (*model.Review, error) {
	r := &model.Review{
		TicketID:  ticketID,
		Rating:    *in.Rating,
		Headline:  in.Headline,
		Body:      in.Body,
		UserID:    actorID,
		CreatedAt: s.now(),
	}
	err := s.reviews.Create(ctx, r)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	logger.Info("review created",
		zap.String("review_id", r.ID),
		zap.String("ticket_id", ticketID),
		zap.String("user_id", actorID))
	return s.GetReview(ctx, r.ID)
}

func (s *contentService) UpdateReview(ctx context.Context, actorID, reviewID string, in ReviewInput) (*model.Review, error) {
	in.clean()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r, err := s.ownReview(ctx, actorID, reviewID)
	if err != nil {
		return nil, err
	}
	r.Rating = *in.Rating
	r.Headline = in.Headline
	r.Body = in.Body
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return s.GetReview(ctx, r.ID)
}

func (s *contentService) DeleteReview(ctx context.Context, actorID, reviewID string) error {
	if _, err := s.ownReview(ctx, actorID, reviewID); err != nil {
		return err
	}
	err := s.reviews.Delete(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (s *contentService) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	r, err := s.reviews.FindByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return r, nil
}

func (s *contentService) ListReviews(ctx context.Context, filter repository.ReviewFilter) ([]*model.Review, error) {
	return s.reviews.List(ctx, filter)
}

func (s *contentService) ownReview(ctx context.Context, actorID, reviewID string) (*model.Review, error) {
	r, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != actorID {
		return nil, ErrNotOwner
	}
	return r, nil
}

func (s *contentService) CreateTicketWithReview(ctx context.Context, actorID string, ti TicketInput, ri ReviewInput) (*model.Ticket, *model.Review, error) {
	ti.clean()
	ri.clean()
	if err := mergeValidation(validateInput(ti), validateInput(ri)); err != nil {
		return nil, nil, err
	}
	t, err := s.createTicket(ctx, actorID, ti)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.createReview(ctx, actorID, t.ID, ri)
	if err != nil {
		// 评论写入失败时撤回刚创建的 Ticket
		if derr := s.tickets.Delete(ctx, t.ID); derr != nil {
			logger.Error("rollback ticket failed", zap.String("ticket_id", t.ID), zap.Error(derr))
		}
		return nil, nil, err
	}
	return t, r, nil
}

// mergeValidation 合并两份校验结果，非校验错误优先返回
func mergeValidation(errs ...error) error {
	var merged *ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		if merged == nil {
			merged = &ValidationError{}
		}
		merged.Fields = append(merged.Fields, ve.Fields...)
	}
	if merged == nil {
		return nil
	}
	return merged
}

func (s *contentService) UploadPhoto(ctx context.Context, actorID string, r io.Reader) (*model.Photo, error) {
	ref, err := s.store.Save(r)
	switch {
	case errors.Is(err, storage.ErrEmpty):
		return nil, fieldError("image", "required", "image is required")
	case errors.Is(err, storage.ErrNotImage):
		return nil, fieldError("image", "image", "image must be a picture file")
	case errors.Is(err, storage.ErrTooLarge):
		return nil, fieldError("image", "max", "image is too large")
	case err != nil:
		return nil, fmt.Errorf("store photo: %w", err)
	}
	p := &model.Photo{Image: ref, UploaderID: actorID, CreatedAt: s.now()}
	if err := s.photos.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

func (s *contentService) GetPhoto(ctx context.Context, photoID string) (*model.Photo, error) {
	p, err := s.photos.FindByID(ctx, photoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find photo: %w", err)
	}
	return p, nil
}

func (s *contentService) DeletePhoto(ctx context.Context, actorID, photoID string) error {
	p, err := s.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if p.UploaderID != actorID {
		return ErrNotOwner
	}
	err = s.photos.Delete(ctx, photoID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPhotoNotFound
	}
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
