package model

import "time"

// Ticket 求评请求，只有作者本人可修改/删除
type Ticket struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"type:varchar(128);not null" json:"title"`
	Author      *string   `gorm:"type:varchar(128)" json:"author,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      string    `gorm:"type:varchar(36);index:idx_ticket_user;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PhotoID     *string   `gorm:"type:varchar(36);index:idx_ticket_photo" json:"photo_id,omitempty"`
	Photo       *Photo    `gorm:"foreignKey:PhotoID" json:"photo,omitempty"`
	CreatedAt   time.Time `gorm:"index:idx_ticket_created" json:"time_created"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }
