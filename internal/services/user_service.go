package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hobbies-go/internal/auth"
	"hobbies-go/internal/models"
	"hobbies-go/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrProfileUserNotFound = errors.New("用户不存在")
	ErrNotProfileOwner     = errors.New("只能修改自己的资料")
	ErrUsernameTaken       = errors.New("该用户名已被占用")
	ErrInvalidDateOfBirth  = errors.New("出生日期格式无效，应为 YYYY-MM-DD")
)

// ProfileUpdate 承载一次部分更新：nil 字段表示调用方没有提交该字段。
type ProfileUpdate struct {
	Username    *string
	Password    *string
	Name        *string
	Email       *string
	DateOfBirth *string   // ISO 日期字符串
	Hobbies     *[]string // 爱好名称列表，整体替换
}

// UserService 定义了用户资料相关服务的接口。
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	// UpdateProfile 以 actorID 的身份更新 targetID 的资料。
	// 只有本人可以更新；更换密码不会使现有会话失效。
	UpdateProfile(ctx context.Context, actorID, targetID uint, update ProfileUpdate) (*models.UserProfile, error)
}

type userService struct {
	userRepo  storage.UserRepository
	hobbyRepo storage.HobbyRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo storage.UserRepository, hobbyRepo storage.HobbyRepository) UserService {
	return &userService{userRepo: userRepo, hobbyRepo: hobbyRepo}
}

// GetProfile 获取用户公开的个人资料（含爱好）。
func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileUserNotFound
		}
		return nil, fmt.Errorf("获取用户 %d 失败: %w", userID, err)
	}
	return user.Profile(), nil
}

// UpdateProfile 按字段部分更新用户资料。
// 爱好按名称整体对账：逐个 get-or-create 后替换整个集合，不做合并。
func (s *userService) UpdateProfile(ctx context.Context, actorID, targetID uint, update ProfileUpdate) (*models.UserProfile, error) {
	if actorID != targetID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileUserNotFound
		}
		return nil, fmt.Errorf("获取用户 %d 失败: %w", targetID, err)
	}

	if update.Username != nil && *update.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, *update.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("检查用户名时出错: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
		user.Username = *update.Username
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.DateOfBirth != nil {
		dob, err := time.Parse(models.DateLayout, *update.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateOfBirth
		}
		user.DateOfBirth = &dob
	}
	if update.Password != nil {
		// 重新哈希入库即可。令牌不与密码绑定，现有会话保持有效。
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("密码哈希失败: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// 并发抢注用户名时由唯一约束兜底
		if storage.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("更新用户 %d 资料失败: %w", targetID, err)
	}

	if update.Hobbies != nil {
		resolved := make([]*models.Hobby, 0, len(*update.Hobbies))
		for _, name := range *update.Hobbies {
			hobby, _, err := s.hobbyRepo.GetOrCreateByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("解析爱好 %q 失败: %w", name, err)
			}
			resolved = append(resolved, hobby)
		}
		if err := s.userRepo.ReplaceHobbies(ctx, user, resolved); err != nil {
			return nil, fmt.Errorf("更新用户 %d 爱好集合失败: %w", targetID, err)
		}
	}

	return user.Profile(), nil
}
