package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hobbies-go/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ReplaceHobbies(ctx context.Context, user *models.User, hobbies []*models.Hobby) error
	ListOthers(ctx context.Context, excludeUserID uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error)
	GetBasicInfoByID(ctx context.Context, id uint) (*models.UserBasicInfo, error)
	GetMultipleBasicInfoByIDs(ctx context.Context, userIDs []uint) ([]*models.UserBasicInfo, error)
}

// gormUserRepository implements UserRepository using GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create creates a new user record in the database.
func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by their ID, with hobbies preloaded.
func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Hobbies").First(&user, id).Error
	if err != nil {
		return nil, err // Handles gorm.ErrRecordNotFound as well
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user record in the database.
func (r *gormUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	// Save 会写全部字段；资料更新走的是先 GetByID 再改字段的路径，所以这里是安全的。
	// 注意 Save 不会同步 many2many 关联，爱好集合由 ReplaceHobbies 单独处理。
	return r.db.WithContext(ctx).Omit("Hobbies").Save(user).Error
}

// ReplaceHobbies replaces the user's entire hobby set with exactly the given
// hobbies. Old associations not in the list are dropped, not merged.
func (r *gormUserRepository) ReplaceHobbies(ctx context.Context, user *models.User, hobbies []*models.Hobby) error {
	if err := r.db.WithContext(ctx).Model(user).Association("Hobbies").Replace(hobbies); err != nil {
		return err
	}
	user.Hobbies = hobbies
	return nil
}

// ListOthers retrieves all users except excludeUserID, with hobbies preloaded.
// bornOnOrBefore / bornOnOrAfter 是年龄过滤换算出来的出生日期界限，nil 表示不过滤。
// 比较对 NULL date_of_birth 永远不成立，所以带年龄过滤时没有生日的用户被排除。
func (r *gormUserRepository) ListOthers(ctx context.Context, excludeUserID uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Preload("Hobbies").Where("id != ?", excludeUserID)
	if bornOnOrBefore != nil {
		q = q.Where("date_of_birth <= ?", *bornOnOrBefore)
	}
	if bornOnOrAfter != nil {
		q = q.Where("date_of_birth >= ?", *bornOnOrAfter)
	}
	if err := q.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetBasicInfoByID retrieves minimal public user info by ID.
func (r *gormUserRepository) GetBasicInfoByID(ctx context.Context, id uint) (*models.UserBasicInfo, error) {
	var basicInfo models.UserBasicInfo
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username", "name").
		Where("id = ?", id).
		First(&basicInfo).Error
	if err != nil {
		return nil, err
	}
	return &basicInfo, nil
}

// GetMultipleBasicInfoByIDs retrieves minimal public user info for a list of user IDs.
func (r *gormUserRepository) GetMultipleBasicInfoByIDs(ctx context.Context, userIDs []uint) ([]*models.UserBasicInfo, error) {
	basicInfos := []*models.UserBasicInfo{}
	if len(userIDs) == 0 {
		return basicInfos, nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username", "name").
		Where("id IN ?", userIDs).
		Find(&basicInfos).Error
	if err != nil {
		return nil, err
	}
	return basicInfos, nil
}
