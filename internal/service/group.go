package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/repository"
)

// GroupService 负责群组管理相关的业务逻辑。
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService 创建 GroupService 实例。
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	if groupRepo == nil || userRepo == nil {
		panic("repositories cannot be nil for GroupService")
	}
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo}
}

// Create 创建一个新群组，创建者在同一事务中成为第一个成员。
func (s *GroupService) Create(ctx context.Context, name, description string, creatorID uint) (*domain.Group, error) {
	logCtx := logrus.WithFields(logrus.Fields{"name": name, "creator_id": creatorID})

	// 1. 校验群组名
	if len(name) < 3 || len(name) > 50 {
		return nil, fmt.Errorf("%w: group name must be between 3 and 50 characters", ErrValidation)
	}

	// 2. 校验创建者存在
	if _, err := s.userRepo.FindByID(ctx, creatorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Group creation failed: creator does not exist")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Database error validating group creator")
		return nil, ErrInternalServer
	}

	// 3. 保存群组 (仓库层事务：插入群组 + 插入创建者成员记录 + 回读)
	group := &domain.Group{Name: name, Description: description, CreatedBy: creatorID}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		logCtx.WithError(err).Error("Failed to save new group to database")
		return nil, ErrInternalServer
	}

	logCtx.WithField("group_id", group.ID).Info("Group created successfully")
	return group, nil
}

// ListAll 返回全部群组，按创建时间降序。
func (s *GroupService) ListAll(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Database error listing groups")
		return nil, ErrInternalServer
	}
	return groups, nil
}

// GetByID 查询群组及其成员列表 (成员按加入时间升序)。
func (s *GroupService) GetByID(ctx context.Context, id uint) (*domain.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		logrus.WithError(err).WithField("group_id", id).Error("Database error finding group")
		return nil, ErrInternalServer
	}

	members, err := s.groupRepo.FindMembers(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("group_id", id).Error("Database error loading group members")
		return nil, ErrInternalServer
	}
	group.Members = members
	return group, nil
}

// Join 处理用户加入群组。
// 返回值 joined 为 true 表示新加入，false 表示此前已是成员 (幂等，不报错)。
// 成员插入由仓库层以单条 insert-if-not-present 语句完成，并发加入不会产生重复行。
func (s *GroupService) Join(ctx context.Context, groupID, userID uint) (bool, error) {
	logCtx := logrus.WithFields(logrus.Fields{"group_id": groupID, "user_id": userID})

	// 1. 校验群组存在
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			logCtx.Warn("Join failed: group not found")
			return false, ErrGroupNotFound
		}
		logCtx.WithError(err).Error("Database error validating group for join")
		return false, ErrInternalServer
	}

	// 2. 校验用户存在
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Join failed: user not found")
			return false, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Database error validating user for join")
		return false, ErrInternalServer
	}

	// 3. 插入成员记录
	joined, err := s.groupRepo.AddMember(ctx, groupID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Database error adding group member")
		return false, ErrInternalServer
	}

	if joined {
		logCtx.Info("User joined group")
	} else {
		logCtx.Debug("Join was a no-op: user already a member")
	}
	return joined, nil
}

// IsMember 检查用户是否为群组成员。
func (s *GroupService) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"group_id": groupID, "user_id": userID}).
			Error("Database error checking membership")
		return false, ErrInternalServer
	}
	return isMember, nil
}
