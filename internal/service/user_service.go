package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userAdminStore interface {
	FindByID(id uint) (*model.User, error)
	List(page, limit int, role, search string) ([]model.User, int64, error)
	UsernameTaken(username string, excludeID uint) (bool, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	Update(user *model.User) error
	Delete(id uint) error
}

type UserService struct {
	UserRepo userAdminStore
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUsers(page, limit int, role, search string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, role, search)
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

type UserUpdateReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

func (s *UserService) UpdateUser(id uint, req UserUpdateReq) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.UserRepo.UsernameTaken(*req.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrUsernameTaken
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.UserRepo.EmailTaken(*req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrEmailRegistered
		}
		user.Email = *req.Email
	}

	if req.Role != nil {
		role := model.UserRole(*req.Role)
		if role != model.Student && role != model.Admin {
			return nil, errors.New("invalid role")
		}
		user.Role = role
	}

	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 管理员不能删除自己的账号
func (s *UserService) DeleteUser(callerID, id uint) error {
	if callerID == id {
		return util.ErrSelfDeletion
	}

	if _, err := s.UserRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	return s.UserRepo.Delete(id)
}
