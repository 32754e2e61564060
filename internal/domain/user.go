// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户。
// APIToken 在注册时由服务端生成 (128 位随机数的十六进制编码)，之后不再变更。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	APIToken  string    `gorm:"column:api_token;type:char(32);uniqueIndex:idx_api_token;not null" json:"api_token,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // 用户记录创建时间 (GORM 自动填充)
}

// PublicProfile 返回去除敏感字段 (api_token) 后的用户副本，用于公开查询接口。
func (u User) PublicProfile() User {
	u.APIToken = ""
	return u
}
