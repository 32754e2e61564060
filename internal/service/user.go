package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/ZhenGtai123/chat-app/internal/domain"
	"github.com/ZhenGtai123/chat-app/internal/repository"
)

// usernamePattern 限定用户名只能包含字母、数字和下划线。
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// UserService 负责用户注册和查询相关的业务逻辑。
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo}
}

// Register 处理用户注册：校验用户名、生成 API token 并落库。
func (s *UserService) Register(ctx context.Context, username string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	// 1. 校验用户名
	if len(username) < 3 || len(username) > 20 {
		return nil, fmt.Errorf("%w: username must be between 3 and 20 characters", ErrValidation)
	}
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username may only contain letters, numbers, and underscores", ErrValidation)
	}

	// 2. 先查重，让冲突错误携带明确信息 (唯一约束只作为并发下的兜底)
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		logCtx.Warn("Registration failed: username already exists")
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking username availability")
		return nil, ErrInternalServer
	}

	// 3. 生成 API token (128 位随机数，十六进制编码为 32 字符)
	token, err := generateAPIToken()
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate API token")
		return nil, ErrInternalServer
	}

	// 4. 保存用户 (仓库层在单个事务中插入并回读)
	user := &domain.User{Username: username, APIToken: token}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 并发注册同名用户时由唯一约束兜底
			logCtx.WithError(err).Warn("Registration failed: duplicate entry on insert")
			return nil, ErrUsernameTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// GetByUsername 根据用户名查询用户。
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("username", username).Error("Database error finding user by username")
		return nil, ErrInternalServer
	}
	return user, nil
}

// GetByID 根据用户 ID 查询用户。
func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", id).Error("Database error finding user by id")
		return nil, ErrInternalServer
	}
	return user, nil
}

// GetByToken 根据 API token 查询用户，供认证中间件使用。
func (s *UserService) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.userRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Database error finding user by token")
		return nil, ErrInternalServer
	}
	return user, nil
}

// generateAPIToken 生成 16 字节密码学随机数并编码为 32 个十六进制字符。
func generateAPIToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
