package repository

import (
	"context"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// GroupRepository 定义了群组及成员关系的存储和检索操作。
type GroupRepository interface {
	// Create 在单个事务中插入群组、插入创建者的成员记录并回读完整群组。
	// 任何一步失败都会整体回滚，不会留下部分状态。
	Create(ctx context.Context, group *domain.Group) error

	// FindAll 返回全部群组，按创建时间降序排列。
	FindAll(ctx context.Context) ([]domain.Group, error)

	// FindByID 根据群组 ID 查找群组 (不含成员列表)。
	// 如果群组不存在，返回 ErrGroupNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Group, error)

	// FindMembers 返回群组的成员列表 (id, username, joined_at)，按加入时间升序。
	FindMembers(ctx context.Context, groupID uint) ([]domain.Member, error)

	// AddMember 以 insert-if-not-present 语义插入成员记录。
	// 返回 true 表示新插入，false 表示该用户已是成员 (不报错、不产生重复行)。
	// 并发加入同一 (group, user) 由数据库唯一约束保证只有一行。
	AddMember(ctx context.Context, groupID, userID uint) (bool, error)

	// IsMember 检查用户是否为群组成员。
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
}
