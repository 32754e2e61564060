package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/service"
)

// UserHandler 封装了与用户相关的 HTTP 处理逻辑
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
}

// Register 处理用户注册请求。
// 成功时返回 201 和完整用户记录 (含 api_token，客户端需自行保存)。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Username is required")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, user)
}

// GetUser 处理公开的用户查询请求，响应中去除 api_token。
func (h *UserHandler) GetUser(c *gin.Context) {
	username := c.Param("username")

	user, err := h.userService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, user.PublicProfile())
}
