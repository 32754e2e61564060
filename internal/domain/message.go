package domain

import "time"

// Message 表示群组内的一条消息记录。创建后不可修改、不可删除。
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"index:idx_group_created,priority:1;not null" json:"group_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"` // 消息作者 (外键关联 User.ID)
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_group_created,priority:2" json:"created_at"`

	// Username 是作者用户名，读取时通过 JOIN users 填充。
	// 只读字段，messages 表中没有对应列 (建表由自定义 SQL 完成，不经过 AutoMigrate)。
	Username string `gorm:"->" json:"username"`
}
