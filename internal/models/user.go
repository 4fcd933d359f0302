package models

import "time"

// User 代表系统中的用户。
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"` // 不暴露密码哈希
	Email        string     `gorm:"type:varchar(100)" json:"email,omitempty"`
	Name         string     `gorm:"type:varchar(150)" json:"name,omitempty"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"-"` // 可选，序列化时转为 ISO 日期字符串

	// 关联关系
	Hobbies []*Hobby `gorm:"many2many:user_hobbies;" json:"hobbies,omitempty"` // 用户的爱好集合
}

// UserBasicInfo holds minimal public information about a user.
// Used for scenarios like displaying the sender of a friend request.
type UserBasicInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// UserProfile is the full public representation of a user:
// id, username, name, email, date_of_birth (ISO date or absent) and the hobby list.
type UserProfile struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Name        string      `json:"name,omitempty"`
	Email       string      `json:"email,omitempty"`
	DateOfBirth string      `json:"date_of_birth,omitempty"`
	Hobbies     []HobbyInfo `json:"hobbies"`
}

// RankedUser is a UserProfile annotated with the number of hobbies
// shared with the requesting user. Produced by the matching query.
type RankedUser struct {
	UserProfile
	CommonHobbiesCount int `json:"common_hobbies_count"`
}

// BasicInfo returns the minimal public DTO for this user.
func (u *User) BasicInfo() *UserBasicInfo {
	return &UserBasicInfo{ID: u.ID, Username: u.Username, Name: u.Name}
}

// Profile returns the full public DTO for this user.
// 需要调用方已经预加载了 Hobbies 关联。
func (u *User) Profile() *UserProfile {
	p := &UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Hobbies:  HobbyInfos(u.Hobbies),
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth.Format(DateLayout)
	}
	return p
}

// TableName 指定 User 模型的表名。
func (User) TableName() string {
	return "users"
}
