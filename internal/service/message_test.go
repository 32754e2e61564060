package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/repository"
	"github.com/ZhenGtai123/chat-app/internal/repository/mocks"
	"github.com/ZhenGtai123/chat-app/internal/service"
)

func newMessageServiceWithMocks() (*service.MessageService, *mocks.MessageRepository, *mocks.GroupRepository, *mocks.UserRepository) {
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	return service.NewMessageService(mockMessageRepo, mockGroupRepo, mockUserRepo), mockMessageRepo, mockGroupRepo, mockUserRepo
}

// --- 测试 Create 方法 ---

func TestMessageService_Create_Success(t *testing.T) {
	// Arrange
	messageService, mockMessageRepo, mockGroupRepo, mockUserRepo := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()
	mockGroupRepo.On("IsMember", ctx, uint(3), uint(7)).Return(true, nil).Once()
	mockMessageRepo.On("Create", ctx, mock.MatchedBy(func(message *domain.Message) bool {
		assert.Equal(t, uint(3), message.GroupID)
		assert.Equal(t, uint(7), message.UserID)
		assert.Equal(t, "hello", message.Content)
		return true
	})).
		Run(func(args mock.Arguments) {
			// 模拟仓库层回读：填充 ID、时间戳和作者用户名
			messageArg := args.Get(1).(*domain.Message)
			messageArg.ID = 42
			messageArg.CreatedAt = time.Now()
			messageArg.Username = "alice"
		}).
		Return(nil).
		Once()

	// Act
	message, err := messageService.Create(ctx, 3, 7, "hello")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, uint(42), message.ID)
	assert.Equal(t, "hello", message.Content)
	assert.Equal(t, "alice", message.Username, "回读结果应携带作者用户名")

	mockMessageRepo.AssertExpectations(t)
	mockGroupRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestMessageService_Create_NotMemberThenMember(t *testing.T) {
	// Arrange: 非成员发消息被拒绝；加入后再次发送成功
	messageService, mockMessageRepo, mockGroupRepo, mockUserRepo := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil).Twice()
	mockUserRepo.On("FindByID", ctx, uint(8)).Return(&domain.User{ID: 8, Username: "bob"}, nil).Twice()
	mockGroupRepo.On("IsMember", ctx, uint(3), uint(8)).Return(false, nil).Once()
	mockGroupRepo.On("IsMember", ctx, uint(3), uint(8)).Return(true, nil).Once()
	mockMessageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Return(nil).Once()

	// Act & Assert: B 不是成员，发消息被拒绝
	_, err := messageService.Create(ctx, 3, 8, "let me in")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotGroupMember), "非成员发消息应返回 ErrNotGroupMember")

	// Act & Assert: B 加入群组后发消息成功
	_, err = messageService.Create(ctx, 3, 8, "hi everyone")
	assert.NoError(t, err)

	mockMessageRepo.AssertExpectations(t)
	mockGroupRepo.AssertExpectations(t)
}

func TestMessageService_Create_InvalidContent(t *testing.T) {
	// Arrange: 成员资格检查通过之后才校验内容
	messageService, mockMessageRepo, mockGroupRepo, mockUserRepo := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil)
	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7}, nil)
	mockGroupRepo.On("IsMember", ctx, uint(3), uint(7)).Return(true, nil)

	for _, content := range []string{"", strings.Repeat("x", 1001)} {
		// Act
		_, err := messageService.Create(ctx, 3, 7, content)

		// Assert
		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrValidation), "内容非法时应返回 ErrValidation")
	}

	// 恰好 1000 字符是合法的
	mockMessageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Return(nil).Once()
	_, err := messageService.Create(ctx, 3, 7, strings.Repeat("x", 1000))
	assert.NoError(t, err)

	mockMessageRepo.AssertExpectations(t)
}

func TestMessageService_Create_GroupNotFound(t *testing.T) {
	// Arrange
	messageService, mockMessageRepo, mockGroupRepo, _ := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrGroupNotFound).Once()

	// Act
	_, err := messageService.Create(ctx, 404, 7, "hello")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrGroupNotFound))

	mockMessageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- 测试 ListByGroup 方法 ---

func TestMessageService_ListByGroup_ClampsPagination(t *testing.T) {
	// Arrange: limit 钳制到 [1,1000]，offset 钳制到非负
	messageService, mockMessageRepo, mockGroupRepo, _ := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil)

	cases := []struct {
		name			string
		limit, offset		int
		wantLimit, wantOffset	int
	}{
		{"零 limit 钳制为 1", 0, 0, 1, 0},
		{"负的 limit 钳制为 1", -5, 0, 1, 0},
		{"超大 limit 钳制为 1000", 5000, 0, 1000, 0},
		{"负的 offset 钳制为 0", 10, -3, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockMessageRepo.On("FindByGroup", ctx, uint(3), tc.wantLimit, tc.wantOffset).
				Return([]domain.Message{}, nil).
				Once()

			// Act
			_, err := messageService.ListByGroup(ctx, 3, tc.limit, tc.offset)

			// Assert
			assert.NoError(t, err)
		})
	}

	mockMessageRepo.AssertExpectations(t)
}

func TestMessageService_ListByGroup_GroupNotFound(t *testing.T) {
	// Arrange
	messageService, mockMessageRepo, mockGroupRepo, _ := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrGroupNotFound).Once()

	// Act
	_, err := messageService.ListByGroup(ctx, 404, 100, 0)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrGroupNotFound))

	mockMessageRepo.AssertNotCalled(t, "FindByGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 ListSince 方法 ---

func TestMessageService_ListSince_Success(t *testing.T) {
	// Arrange
	messageService, mockMessageRepo, mockGroupRepo, _ := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockMessageRepo.On("FindByGroupSince", ctx, uint(3), mock.MatchedBy(func(ts time.Time) bool {
		return ts.Equal(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	})).
		Return([]domain.Message{{ID: 1, Content: "hello"}}, nil).
		Once()

	// Act
	messages, err := messageService.ListSince(ctx, 3, "2026-09-01 12:00:00")

	// Assert
	assert.NoError(t, err)
	require.Len(t, messages, 1)

	mockMessageRepo.AssertExpectations(t)
}

func TestMessageService_ListSince_InvalidTimestamp(t *testing.T) {
	// Arrange
	messageService, mockMessageRepo, mockGroupRepo, _ := newMessageServiceWithMocks()
	ctx := context.Background()

	mockGroupRepo.On("FindByID", ctx, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()

	// Act
	_, err := messageService.ListSince(ctx, 3, "not-a-timestamp")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation), "时间戳解析失败应返回 ErrValidation")

	mockMessageRepo.AssertNotCalled(t, "FindByGroupSince", mock.Anything, mock.Anything, mock.Anything)
}
