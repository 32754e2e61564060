package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/repository"
)

// 消息分页参数的边界。
const (
	minMessageLimit  = 1
	maxMessageLimit  = 1000
	maxContentLength = 1000
)

// timestampLayouts 是 since 参数接受的时间格式。
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MessageService 负责消息发布和查询相关的业务逻辑。
type MessageService struct {
	messageRepo repository.MessageRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
}

// NewMessageService 创建 MessageService 实例。
func NewMessageService(messageRepo repository.MessageRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository) *MessageService {
	if messageRepo == nil || groupRepo == nil || userRepo == nil {
		panic("repositories cannot be nil for MessageService")
	}
	return &MessageService{messageRepo: messageRepo, groupRepo: groupRepo, userRepo: userRepo}
}

// Create 发布一条消息。只有群组成员可以发消息。
func (s *MessageService) Create(ctx context.Context, groupID, userID uint, content string) (*domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"group_id": groupID, "user_id": userID})

	// 1. 校验群组存在
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			logCtx.Warn("Message creation failed: group not found")
			return nil, ErrGroupNotFound
		}
		logCtx.WithError(err).Error("Database error validating group for message")
		return nil, ErrInternalServer
	}

	// 2. 校验用户存在
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Message creation failed: user not found")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Database error validating user for message")
		return nil, ErrInternalServer
	}

	// 3. 校验成员资格
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Database error checking membership for message")
		return nil, ErrInternalServer
	}
	if !isMember {
		logCtx.Warn("Message creation rejected: user is not a group member")
		return nil, ErrNotGroupMember
	}

	// 4. 校验消息内容
	if len(content) == 0 || len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: message content must not be empty and less than %d characters", ErrValidation, maxContentLength)
	}

	// 5. 保存消息 (仓库层事务：插入并回读，回读结果携带作者用户名)
	message := &domain.Message{GroupID: groupID, UserID: userID, Content: content}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		logCtx.WithError(err).Error("Failed to save message to database")
		return nil, ErrInternalServer
	}

	logCtx.WithField("message_id", message.ID).Info("Message created")
	return message, nil
}

// ListByGroup 分页查询群组消息，最新在前。
// limit 钳制到 [1, 1000]，offset 钳制到非负；越界值静默修正而不是报错。
// 缺省 limit 由调用方负责填充，这里不做默认值处理。
func (s *MessageService) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]domain.Message, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		logrus.WithError(err).WithField("group_id", groupID).Error("Database error validating group for message list")
		return nil, ErrInternalServer
	}

	if limit < minMessageLimit {
		limit = minMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.FindByGroup(ctx, groupID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("group_id", groupID).Error("Database error listing messages")
		return nil, ErrInternalServer
	}
	return messages, nil
}

// ListSince 增量查询群组消息：创建时间严格晚于 since 的消息，按时间升序。
// since 解析失败属于调用方输入错误。
func (s *MessageService) ListSince(ctx context.Context, groupID uint, since string) ([]domain.Message, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		logrus.WithError(err).WithField("group_id", groupID).Error("Database error validating group for since query")
		return nil, ErrInternalServer
	}

	ts, err := parseTimestamp(since)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp format: %s", ErrValidation, since)
	}

	messages, err := s.messageRepo.FindByGroupSince(ctx, groupID, ts)
	if err != nil {
		logrus.WithError(err).WithField("group_id", groupID).Error("Database error listing messages since timestamp")
		return nil, ErrInternalServer
	}
	return messages, nil
}

// parseTimestamp 依次尝试支持的时间格式。
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", value)
}
