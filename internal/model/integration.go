package model

// 平台常量
const (
	PlatformTikTokShop = "tiktok_shop"
)

// Token 状态常量
const (
	TokenStatusValid   = "valid"        // 有效
	TokenStatusExpired = "expired"      // 已过期，等待刷新或重新授权
	TokenStatusInvalid = "auth_invalid" // 需重新授权
)

// Integration 第三方店铺授权记录
// 单租户设计：每个 platform 同一时刻只认第一条记录为"当前连接"
// 如果以后要多租户，给 (platform, tenant_id) 建联合键即可，查询逻辑不用改
type Integration struct {
	BaseModel
	Platform             string `gorm:"size:50;index:idx_platform_shop,unique;not null"` // 如 tiktok_shop
	ShopID               string `gorm:"size:100;index:idx_platform_shop,unique"`         // 平台侧店铺标识
	AccessToken          string `gorm:"type:text"`
	RefreshToken         string `gorm:"type:text"`
	AccessTokenExpireIn  int64  // 过期时间戳（秒），上游原样返回
	RefreshTokenExpireIn int64
	SellerName           string `gorm:"size:255"`
	TokenStatus          string `gorm:"size:20;default:'valid'"`
}

func (Integration) TableName() string { return "integrations" }
