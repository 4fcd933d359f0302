package storage

import (
	"context"

	"gorm.io/gorm"

	"hobbies-go/internal/models"
)

// HobbyRepository defines the interface for hobby data operations.
type HobbyRepository interface {
	// GetOrCreateByName atomically fetches the hobby with the given name,
	// creating it first if absent. The bool reports whether it was created.
	GetOrCreateByName(ctx context.Context, name string) (*models.Hobby, bool, error)
	GetByName(ctx context.Context, name string) (*models.Hobby, error)
	ListAll(ctx context.Context) ([]models.Hobby, error)
}

type gormHobbyRepository struct {
	db *gorm.DB
}

// NewGormHobbyRepository creates a new GORM-based HobbyRepository.
func NewGormHobbyRepository(db *gorm.DB) HobbyRepository {
	return &gormHobbyRepository{db: db}
}

// GetOrCreateByName 先尝试插入，依赖 name 上的唯一约束：并发创建同名爱好时，
// 失败的一方回退为按名称查询而不是报错。
func (r *gormHobbyRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Hobby, bool, error) {
	hobby := &models.Hobby{Name: name}
	err := r.db.WithContext(ctx).Create(hobby).Error
	if err == nil {
		return hobby, true, nil
	}
	if !IsUniqueViolation(err) {
		return nil, false, err
	}

	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByName retrieves a hobby by its unique name.
func (r *gormHobbyRepository) GetByName(ctx context.Context, name string) (*models.Hobby, error) {
	var hobby models.Hobby
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&hobby).Error
	if err != nil {
		return nil, err
	}
	return &hobby, nil
}

// ListAll returns all hobbies, unfiltered and unpaginated.
func (r *gormHobbyRepository) ListAll(ctx context.Context) ([]models.Hobby, error) {
	var hobbies []models.Hobby
	err := r.db.WithContext(ctx).Order("id").Find(&hobbies).Error
	return hobbies, err
}
