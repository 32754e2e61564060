package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/middleware"
	"github.com/ZhenGtai123/chat-app/internal/service"
)

// GroupHandler 封装了与群组相关的 HTTP 处理逻辑
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler 创建 GroupHandler 实例
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest 定义创建群组请求的结构体
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListGroups 返回全部群组。
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.ListAll(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, groups)
}

// CreateGroup 处理创建群组请求，创建者取自认证上下文。
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateGroup: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Group name is required")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req.Name, req.Description, user.ID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, group)
}

// GetGroup 返回单个群组及其成员列表。
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, err := parseGroupID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), groupID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, group)
}

// JoinGroup 处理加入群组请求。重复加入不报错，但响应区分两种结果。
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	groupID, err := parseGroupID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid group ID")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	joined, err := h.groupService.Join(c.Request.Context(), groupID, user.ID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	if joined {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Successfully joined the group"})
	} else {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Already a member of the group"})
	}
}

// parseGroupID 解析路径参数中的群组 ID。
func parseGroupID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
