package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/middleware"
	"github.com/ZhenGtai123/chat-app/internal/service"
)

// responseTimestampLayout 是消息列表响应中服务器时间戳的格式，
// 客户端把它原样作为下一次轮询的 since 参数。
const responseTimestampLayout = "2006-01-02 15:04:05"

// MessageHandler 封装了与消息相关的 HTTP 处理逻辑
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler 创建 MessageHandler 实例
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// CreateMessageRequest 定义发消息请求的结构体
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetMessages 查询群组消息。
// 带 since 参数时做增量查询 (升序)，否则按 limit/offset 分页 (降序)。
// 响应附带服务器当前时间，供客户端做下一次 since 轮询。
func (h *MessageHandler) GetMessages(c *gin.Context) {
	groupID, err := parseGroupID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid group ID")
		return
	}

	var messages []domain.Message
	if since := c.Query("since"); since != "" {
		messages, err = h.messageService.ListSince(c.Request.Context(), groupID, since)
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		messages, err = h.messageService.ListByGroup(c.Request.Context(), groupID, limit, offset)
	}
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"messages":  messages,
		"timestamp": time.Now().UTC().Format(responseTimestampLayout),
	})
}

// CreateMessage 处理发消息请求，作者取自认证上下文。
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	groupID, err := parseGroupID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid group ID")
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateMessage: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Message content is required")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	message, err := h.messageService.Create(c.Request.Context(), groupID, user.ID, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, message)
}
