package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/repository"
)

// GormGroupRepository 是 GroupRepository 接口的 GORM 实现
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository 创建 GormGroupRepository 实例
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	if db == nil {
		panic("database connection cannot be nil for GormGroupRepository")
	}
	return &GormGroupRepository{db: db}
}

// Create 在单个事务中插入群组、插入创建者的成员记录并回读完整群组。
// 任何一步失败都会整体回滚，外部永远观察不到没有成员的群组。
func (r *GormGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := domain.Membership{GroupID: group.ID, UserID: group.CreatedBy}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		var fresh domain.Group
		if err := tx.First(&fresh, group.ID).Error; err != nil {
			return err
		}
		*group = fresh
		return nil
	})
	if err != nil {
		return fmt.Errorf("gorm: create group '%s' (creator: %d): %w", group.Name, group.CreatedBy, err)
	}
	return nil
}

// FindAll 实现查询全部群组，按创建时间降序
func (r *GormGroupRepository) FindAll(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all groups: %w", err)
	}
	return groups, nil
}

// FindByID 实现根据群组 ID 查找群组
func (r *GormGroupRepository) FindByID(ctx context.Context, id uint) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}
		return nil, fmt.Errorf("gorm: find group by id %d: %w", id, err)
	}
	return &group, nil
}

// FindMembers 实现查询群组成员列表，按加入时间升序
func (r *GormGroupRepository) FindMembers(ctx context.Context, groupID uint) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Table("group_members AS gm").
		Select("u.id, u.username, gm.joined_at").
		Joins("JOIN users u ON gm.user_id = u.id").
		Where("gm.group_id = ?", groupID).
		Order("gm.joined_at ASC, u.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find members of group %d: %w", groupID, err)
	}
	return members, nil
}

// AddMember 实现 insert-if-not-present 语义的成员插入。
// 唯一约束冲突时 DoNothing，不报错；RowsAffected 区分新插入和已存在。
// 并发加入同一 (group, user) 不会产生重复行，也不会失败。
func (r *GormGroupRepository) AddMember(ctx context.Context, groupID, userID uint) (bool, error) {
	member := domain.Membership{GroupID: groupID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member)
	if result.Error != nil {
		return false, fmt.Errorf("gorm: add member (group: %d, user: %d): %w", groupID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IsMember 实现成员资格检查
func (r *GormGroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check membership (group: %d, user: %d): %w", groupID, userID, err)
	}
	return count > 0, nil
}
