package model

// 用户角色常量
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// SysUser 系统用户
type SysUser struct {
	BaseModel
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Nickname string `gorm:"size:50" json:"nickname"`
	Role     string `gorm:"size:20;default:'operator'" json:"role"`
	Status   int    `gorm:"default:1" json:"status"` // 0: 停用, 1: 正常

	// TikTok 网页端会话 Cookie（用户在设置页自行粘贴保存）
	// 为空表示未配置，抓取时回退到进程级默认值
	TikTokSessionCookie string `gorm:"type:text" json:"-"`
}

func (SysUser) TableName() string { return "sys_users" }
