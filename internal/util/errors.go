package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrUsernameTaken     = errors.New("该用户名已被使用")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrPortalMismatch    = errors.New("portal does not match account role")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrSelfDeletion      = errors.New("cannot delete your own account")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAttemptIncomplete = errors.New("attempt is missing answers")
)
