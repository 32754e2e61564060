package service

import "errors"

// 服务层的业务错误。具体的校验信息通过 fmt.Errorf("%w: ...") 包装在
// 对应的哨兵错误上，HTTP 层用 errors.Is 判断类别并决定状态码。
var (
	ErrValidation     = errors.New("invalid input")
	ErrUserNotFound   = errors.New("user not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrNotGroupMember = errors.New("user is not a member of this group")
	ErrInternalServer = errors.New("internal server error")
)
