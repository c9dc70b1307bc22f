package model

import (
	"github.com/lib/pq"
)

// KOL 级别常量
const (
	KOLTierNano  = "Nano"
	KOLTierMicro = "Micro"
	KOLTierMacro = "Macro"
	KOLTierMega  = "Mega"
)

// KOL 达人档案
type KOL struct {
	BaseModel
	Name       string         `gorm:"size:100;not null" json:"name"`
	Tier       string         `gorm:"size:20;default:'Micro'" json:"tier"` // Nano/Micro/Macro/Mega
	Categories pq.StringArray `gorm:"type:text[]" json:"categories"`       // 内容品类标签

	// 主指标（跨平台汇总）
	Followers int64 `gorm:"default:0" json:"followers"`
	AvgViews  int64 `gorm:"default:0" json:"avg_views"`

	// TikTok
	TikTokUsername  string `gorm:"size:100;index" json:"tiktok_username"`
	TikTokFollowers int64  `gorm:"default:0" json:"tiktok_followers"`

	// Instagram
	InstagramUsername  string `gorm:"size:100;index" json:"instagram_username"`
	InstagramFollowers int64  `gorm:"default:0" json:"instagram_followers"`

	// 报价 (IDR)
	RateCardTikTok int64  `gorm:"default:0" json:"rate_card_tiktok"`
	RateCardReels  int64  `gorm:"default:0" json:"rate_card_reels"`
	RateCardPdfURL string `gorm:"size:500" json:"rate_card_pdf_url"`

	// 联系信息
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Notes        string `gorm:"type:text" json:"notes"`
}

func (KOL) TableName() string { return "kols" }
