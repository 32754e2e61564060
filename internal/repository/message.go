package repository

import (
	"context"
	"time"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// MessageRepository 定义了消息数据的存储和检索操作。
// 所有读取结果都通过 JOIN users 填充作者用户名。
type MessageRepository interface {
	// Create 在单个事务中插入消息并回读完整记录 (含作者用户名)。
	Create(ctx context.Context, message *domain.Message) error

	// FindByGroup 返回群组内的消息，按创建时间降序分页。
	// limit 和 offset 由调用方预先钳制到合法范围。
	FindByGroup(ctx context.Context, groupID uint, limit, offset int) ([]domain.Message, error)

	// FindByGroupSince 返回群组内创建时间严格晚于 since 的消息，按创建时间升序，
	// 供客户端按投递顺序增量轮询。
	FindByGroupSince(ctx context.Context, groupID uint, since time.Time) ([]domain.Message, error)
}
