package domain

// GuestUsername 未携带凭证的调用方身份
const GuestUsername = "guest"

// User 用户实体
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Disabled     bool
}

// Identity 解析后的调用方身份
type Identity struct {
	Username string
	IsGuest  bool
}

// Guest 返回访客身份
func Guest() Identity {
	return Identity{Username: GuestUsername, IsGuest: true}
}
