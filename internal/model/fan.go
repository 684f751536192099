package model

import "time"

// Fan 粉丝索引（A 关注 B => B 的粉丝是 A），与 Follow 同事务写入
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_fan_user;index:idx_fan_pair,unique;not null"`
	FanID     string `gorm:"type:varchar(36);not null;index:idx_fan_pair,unique"`
	CreatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
