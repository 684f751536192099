package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/internal/model"
)

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	FindByID(ctx context.Context, id string) (*model.Photo, error)
	// Delete 删除图片并把引用它的 Ticket.photo_id 置空
	Delete(ctx context.Context, id string) error
}

type photoRepository struct{ db *gorm.DB }

func NewPhotoRepository(db *gorm.DB) PhotoRepository { return &photoRepository{db: db} }

func (r *photoRepository) Create(ctx context.Context, photo *model.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) FindByID(ctx context.Context, id string) (*model.Photo, error) {
	var p model.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Ticket{}).
			Where("photo_id = ?", id).
			Update("photo_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Photo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
