package model

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

// Review 对某个 Ticket 的评论；同一用户对同一 Ticket 只能评一次
type Review struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TicketID string  `gorm:"type:varchar(36);not null;index:idx_review_ticket;uniqueIndex:ux_review_ticket_user" json:"ticket_id"`
	Ticket   *Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	Rating   int     `gorm:"not null" json:"rating"`
	Headline string  `gorm:"type:varchar(128);not null" json:"headline"`
	Body     string  `gorm:"type:text" json:"body"`
	UserID   string  `gorm:"type:varchar(36);not null;index:idx_review_user;uniqueIndex:ux_review_ticket_user" json:"user_id"`
	// 复合唯一键 ux_review_ticket_user = (ticket_id, user_id)
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_review_created" json:"time_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
