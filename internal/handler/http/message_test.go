package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	httpHandler "github.com/ZhenGtai123/chat-app/internal/handler/http"
	"github.com/ZhenGtai123/chat-app/internal/middleware"
	"github.com/ZhenGtai123/chat-app/internal/repository/mocks"
	"github.com/ZhenGtai123/chat-app/internal/service"
)

// setupMessageRouter 搭建带认证中间件的消息路由。
func setupMessageRouter(mockMessageRepo *mocks.MessageRepository, mockGroupRepo *mocks.GroupRepository, mockUserRepo *mocks.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	userService := service.NewUserService(mockUserRepo)
	messageHandler := httpHandler.NewMessageHandler(
		service.NewMessageService(mockMessageRepo, mockGroupRepo, mockUserRepo))

	router := gin.New()
	authorized := router.Group("", middleware.TokenAuth(userService))
	{
		authorized.GET("/groups/:id/messages", messageHandler.GetMessages)
		authorized.POST("/groups/:id/messages", messageHandler.CreateMessage)
	}
	return router
}

func TestMessageHandler_CreateMessage_Created(t *testing.T) {
	// Arrange
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockUserRepo.On("FindByID", mock.Anything, uint(7)).Return(testUser, nil).Once()
	mockGroupRepo.On("IsMember", mock.Anything, uint(3), uint(7)).Return(true, nil).Once()
	mockMessageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			msg := args.Get(1).(*domain.Message)
			msg.ID = 42
			msg.Username = "alice"
		}).
		Return(nil).
		Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/groups/3/messages", `{"content":"hello everyone"}`))

	// Assert: 响应携带作者用户名
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"hello everyone"`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	mockMessageRepo.AssertExpectations(t)
}

func TestMessageHandler_CreateMessage_NotMember(t *testing.T) {
	// Arrange: 非成员发消息返回 403，不触达消息仓库
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockUserRepo.On("FindByID", mock.Anything, uint(7)).Return(testUser, nil).Once()
	mockGroupRepo.On("IsMember", mock.Anything, uint(3), uint(7)).Return(false, nil).Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/groups/3/messages", `{"content":"sneaky"}`))

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
	mockMessageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageHandler_GetMessages_Envelope(t *testing.T) {
	// Arrange
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockMessageRepo.On("FindByGroup", mock.Anything, uint(3), 100, 0).
		Return([]domain.Message{
			{ID: 2, GroupID: 3, UserID: 7, Content: "second", Username: "alice"},
			{ID: 1, GroupID: 3, UserID: 8, Content: "first", Username: "bob"},
		}, nil).
		Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/groups/3/messages", ""))

	// Assert: 响应包含 messages 数组和服务器时间戳
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Messages  []domain.Message `json:"messages"`
		Timestamp string           `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "second", body.Messages[0].Content)
	_, err := time.Parse("2006-01-02 15:04:05", body.Timestamp)
	assert.NoError(t, err, "timestamp should be reusable as the next since parameter")
}

func TestMessageHandler_GetMessages_Empty(t *testing.T) {
	// Arrange: 无消息时 messages 字段是空数组而不是 null
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	mockMessageRepo.On("FindByGroup", mock.Anything, uint(3), 100, 0).
		Return(nil, nil).
		Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/groups/3/messages", ""))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"messages":[]`)
}

func TestMessageHandler_GetMessages_Since(t *testing.T) {
	// Arrange
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	expected := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mockMessageRepo.On("FindByGroupSince", mock.Anything, uint(3), expected).
		Return([]domain.Message{{ID: 9, Content: "fresh", Username: "bob"}}, nil).
		Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/groups/3/messages?since=2026-09-01+12:00:00", ""))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"fresh"`)
	mockMessageRepo.AssertExpectations(t)
}

func TestMessageHandler_GetMessages_BadSince(t *testing.T) {
	// Arrange
	mockMessageRepo := new(mocks.MessageRepository)
	mockGroupRepo := new(mocks.GroupRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByToken", mock.Anything, testToken).Return(testUser, nil).Once()
	mockGroupRepo.On("FindByID", mock.Anything, uint(3)).Return(&domain.Group{ID: 3}, nil).Once()
	router := setupMessageRouter(mockMessageRepo, mockGroupRepo, mockUserRepo)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/groups/3/messages?since=not-a-time", ""))

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockMessageRepo.AssertNotCalled(t, "FindByGroupSince", mock.Anything, mock.Anything, mock.Anything)
}
