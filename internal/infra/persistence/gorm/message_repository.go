package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// messageColumns 是消息读取查询的统一列集合 (含联表得到的作者用户名)。
const messageColumns = "m.id, m.group_id, m.user_id, m.content, m.created_at, u.username"

// GormMessageRepository 是 MessageRepository 接口的 GORM 实现
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GormMessageRepository 实例
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

// Create 在单个事务中插入消息并回读完整记录 (含作者用户名)。
func (r *GormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		var fresh domain.Message
		result := tx.Table("messages AS m").
			Select(messageColumns).
			Joins("JOIN users u ON m.user_id = u.id").
			Where("m.id = ?", message.ID).
			Scan(&fresh)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("created message %d not found on read-back", message.ID)
		}
		*message = fresh
		return nil
	})
	if err != nil {
		return fmt.Errorf("gorm: create message (group: %d, user: %d): %w", message.GroupID, message.UserID, err)
	}
	return nil
}

// FindByGroup 实现按群组分页查询消息，按创建时间降序 (最新在前)
func (r *GormMessageRepository) FindByGroup(ctx context.Context, groupID uint, limit, offset int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select(messageColumns).
		Joins("JOIN users u ON m.user_id = u.id").
		Where("m.group_id = ?", groupID).
		Order("m.created_at DESC, m.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages of group %d: %w", groupID, err)
	}
	return messages, nil
}

// FindByGroupSince 实现增量查询：创建时间严格晚于 since 的消息，按创建时间升序，
// 与分页查询相反的顺序是刻意的，方便轮询客户端按投递顺序追加。
func (r *GormMessageRepository) FindByGroupSince(ctx context.Context, groupID uint, since time.Time) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select(messageColumns).
		Joins("JOIN users u ON m.user_id = u.id").
		Where("m.group_id = ? AND m.created_at > ?", groupID, since).
		Order("m.created_at ASC, m.id ASC").
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages of group %d since %v: %w", groupID, since, err)
	}
	return messages, nil
}
