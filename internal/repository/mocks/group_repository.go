package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ZhenGtai123/chat-app/internal/domain"
)

// GroupRepository 是 repository.GroupRepository 的 mock 实现
type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *GroupRepository) FindAll(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if groups := args.Get(0); groups != nil {
		return groups.([]domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) FindByID(ctx context.Context, id uint) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if group := args.Get(0); group != nil {
		return group.(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) FindMembers(ctx context.Context, groupID uint) ([]domain.Member, error) {
	args := m.Called(ctx, groupID)
	if members := args.Get(0); members != nil {
		return members.([]domain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) AddMember(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}
