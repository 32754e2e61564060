package repository

import (
	"context"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// Create 在单个事务中插入用户并回读完整记录 (含数据库生成的 ID 和时间戳)。
	// 违反唯一约束时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// FindByUsername 根据用户名查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByToken 根据 API token 查找用户。
	FindByToken(ctx context.Context, token string) (*domain.User, error)
}
