package model

import "time"

// Photo 上传的图片，Image 为存储层的内容寻址引用
type Photo struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Image      string    `gorm:"type:varchar(255);not null" json:"image"`
	UploaderID string    `gorm:"type:varchar(36);index:idx_photo_uploader;not null" json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Photo) TableName() string { return "photos" }
