package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hobbies-go/internal/models"
	"hobbies-go/internal/storage"
)

var (
	ErrHobbyNameRequired = errors.New("爱好名称不能为空")
)

// HobbyService 定义了爱好注册表的接口：按唯一名称 get-or-create，以及全量列表。
// 没有删除和改名路径。
type HobbyService interface {
	// GetOrCreate 返回名为 name 的爱好，必要时先创建；bool 表示是否新建。
	GetOrCreate(ctx context.Context, name string) (*models.Hobby, bool, error)
	List(ctx context.Context) ([]models.HobbyInfo, error)
}

type hobbyService struct {
	hobbyRepo storage.HobbyRepository
}

// NewHobbyService 创建一个新的 HobbyService 实例。
func NewHobbyService(hobbyRepo storage.HobbyRepository) HobbyService {
	return &hobbyService{hobbyRepo: hobbyRepo}
}

// GetOrCreate 是幂等的：同名调用两次返回同一条记录。
func (s *hobbyService) GetOrCreate(ctx context.Context, name string) (*models.Hobby, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrHobbyNameRequired
	}

	hobby, created, err := s.hobbyRepo.GetOrCreateByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("获取或创建爱好 %q 失败: %w", name, err)
	}
	return hobby, created, nil
}

// List 返回全部爱好，不过滤也不分页。
func (s *hobbyService) List(ctx context.Context) ([]models.HobbyInfo, error) {
	hobbies, err := s.hobbyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取爱好列表失败: %w", err)
	}

	infos := make([]models.HobbyInfo, 0, len(hobbies))
	for i := range hobbies {
		infos = append(infos, hobbies[i].Info())
	}
	return infos, nil
}
