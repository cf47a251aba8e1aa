package service

import (
	"context"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

type userStore interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	UsernameTaken(username string, excludeID uint) (bool, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	UpdateLastLogin(userID uint) error
}

type AuthService struct {
	Users userStore
	Redis *redis.Client
	Cfg   *config.Config
}

func NewAuthService(users userStore, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Redis: rdb,
		Cfg:   cfg,
	}
}

// Register 自助注册。角色固定为 student，管理员只能由种子或管理端创建
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	// 重名检查包含已注销账号，口径与数据库唯一索引一致
	taken, err := s.Users.UsernameTaken(username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}

	registered, err := s.Users.EmailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.Student,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并核对登录入口（portal）与账号实际角色是否一致
func (s *AuthService) Login(username, password string, portal model.UserRole) (string, *model.User, error) {
	user, err := s.Users.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredential
	}

	if user.Role != portal {
		return "", nil, util.ErrPortalMismatch
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	_ = s.Users.UpdateLastLogin(user.ID)
	return token, user, nil
}

// Logout 把令牌哈希写入吊销表，TTL 取令牌剩余有效期
func (s *AuthService) Logout(ctx context.Context, tokenString string, claims *util.Claims) error {
	if s.Redis == nil {
		return nil
	}
	ttl := s.Cfg.JWT.ExpireTime
	if claims != nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(ctx, util.RevocationKey(tokenString), "1", ttl).Err()
}
