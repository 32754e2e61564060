package domain

import "time"

// Membership 表示用户与群组的成员关系。
// (group_id, user_id) 组合唯一，群组创建者在创建事务中自动成为成员。
type Membership struct {
	GroupID  uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName 指定 Membership 的表名。
func (Membership) TableName() string {
	return "group_members"
}
