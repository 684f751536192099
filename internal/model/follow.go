package model

import (
	"time"
)

// Follow 关注关系（A 关注 B），有向，不隐含 B 关注 A
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null" json:"follower_id"`
	FolloweeID string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique" json:"followee_id"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
