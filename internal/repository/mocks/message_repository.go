package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// MessageRepository 是 repository.MessageRepository 的 mock 实现
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepository) FindByGroup(ctx context.Context, groupID uint, limit, offset int) ([]domain.Message, error) {
	args := m.Called(ctx, groupID, limit, offset)
	if messages := args.Get(0); messages != nil {
		return messages.([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) FindByGroupSince(ctx context.Context, groupID uint, since time.Time) ([]domain.Message, error) {
	args := m.Called(ctx, groupID, since)
	if messages := args.Get(0); messages != nil {
		return messages.([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}
