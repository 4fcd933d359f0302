package models

// Hobby 代表一个爱好。爱好在全局范围内按名称唯一，
// 由任意用户在更新资料或调用爱好接口时惰性创建（get-or-create），不会被删除。
type Hobby struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// HobbyInfo holds the public representation of a hobby.
// Used inside user profiles and the hobby list endpoint.
type HobbyInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Info returns the public DTO for this hobby.
func (h *Hobby) Info() HobbyInfo {
	return HobbyInfo{ID: h.ID, Name: h.Name}
}

// HobbyInfos converts a slice of hobbies into their public DTOs.
// Returns an empty (non-nil) slice so JSON encodes [] instead of null.
func HobbyInfos(hobbies []*Hobby) []HobbyInfo {
	infos := make([]HobbyInfo, 0, len(hobbies))
	for _, h := range hobbies {
		infos = append(infos, h.Info())
	}
	return infos
}

// TableName 指定 Hobby 模型的表名。
func (Hobby) TableName() string {
	return "hobbies"
}
