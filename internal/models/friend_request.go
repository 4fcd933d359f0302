package models

// FriendRequest 代表一条好友请求记录。
// 每个有序对 (from_user_id, to_user_id) 最多存在一条记录，由唯一索引保证；
// A→B 与 B→A 是两条互不相干的记录，可以同时处于待处理状态。
// 请求一旦被接收者接受（accepted=true）即为终态，本设计中没有拒绝或撤销路径。
type FriendRequest struct {
	BaseModel
	FromUserID uint `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"from_user_id"` // 请求发送者
	ToUserID   uint `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"to_user_id"`   // 请求接收者
	Accepted   bool `gorm:"not null;default:false" json:"accepted"`
}

// Pending reports whether this request is still awaiting a response.
func (fr *FriendRequest) Pending() bool {
	return !fr.Accepted
}

// FriendRequestWithSender is a DTO that includes friend request details
// along with basic information about the user who sent the request.
// Useful for API responses listing pending requests.
type FriendRequestWithSender struct {
	FriendRequest                // Embed the core FriendRequest data
	Sender        *UserBasicInfo `json:"from_user"` // Basic sender info
}

// TableName 指定 FriendRequest 模型的表名。
func (FriendRequest) TableName() string {
	return "friend_requests"
}
