package domain

import "time"

// Group 表示一个聊天群组。
// 注意：`groups` 在 MySQL 8 中是保留字，因此表名使用 chat_groups。
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(191);not null" json:"name"` // 群组名不要求唯一
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uint      `gorm:"index;not null" json:"created_by"` // 创建者用户 ID (外键关联 User.ID)
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Members 仅在按 ID 查询单个群组时填充，不映射数据库列。
	Members []Member `gorm:"-" json:"members,omitempty"`
}

// TableName 指定 Group 的表名。
func (Group) TableName() string {
	return "chat_groups"
}

// Member 是群组成员视图 (用户信息 + 加入时间)，由 group_members 与 users 联表得到。
type Member struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}
