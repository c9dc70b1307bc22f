package model

import "time"

// Campaign 状态常量
const (
	CampaignStatusDraft     = "Draft"
	CampaignStatusActive    = "Active"
	CampaignStatusCompleted = "Completed"
)

// Campaign 投放目标常量
const (
	ObjectiveAwareness  = "AWARENESS"
	ObjectiveConversion = "CONVERSION"
)

// Deliverable 流程状态常量
const (
	DeliverableToContact       = "to_contact"
	DeliverableNegotiating     = "negotiating"
	DeliverableContentCreation = "content_creation"
	DeliverablePosted          = "posted"
	DeliverableCompleted       = "completed"
)

// Campaign 营销活动
type Campaign struct {
	BaseModel
	Name      string     `gorm:"size:255;not null" json:"name"`
	Budget    int64      `gorm:"default:0" json:"budget"`                // IDR
	Platform  string     `gorm:"size:20;default:'TikTok'" json:"platform"` // TikTok / Instagram
	Objective string     `gorm:"size:20;default:'AWARENESS'" json:"objective"`
	Status    string     `gorm:"size:20;default:'Draft'" json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Deliverables []Deliverable `gorm:"foreignKey:CampaignID" json:"deliverables,omitempty"`
}

func (Campaign) TableName() string { return "campaigns" }

// Deliverable 活动下某个达人的交付项
type Deliverable struct {
	BaseModel
	CampaignID int64 `gorm:"index;not null" json:"campaign_id"`
	KOLID      int64 `gorm:"index;not null" json:"kol_id"`
	KOL        *KOL  `gorm:"foreignKey:KOLID" json:"kol,omitempty"`

	Status      string     `gorm:"size:30;default:'to_contact'" json:"status"`
	Fee         int64      `gorm:"default:0" json:"fee"` // 成交价 (IDR)
	ContentLink string     `gorm:"size:500" json:"content_link"`
	DueDate     *time.Time `json:"due_date"`
	Notes       string     `gorm:"type:text" json:"notes"`

	// 效果指标
	VideosCount      int   `gorm:"default:0" json:"videos_count"`
	TotalViews       int64 `gorm:"default:0" json:"total_views"`
	TotalEngagements int64 `gorm:"default:0" json:"total_engagements"`
	Likes            int64 `gorm:"default:0" json:"likes"`
	Comments         int64 `gorm:"default:0" json:"comments"`
	Shares           int64 `gorm:"default:0" json:"shares"`
	Clicks           int64 `gorm:"default:0" json:"clicks"`
	Orders           int64 `gorm:"default:0" json:"orders"`
	SalesGenerated   int64 `gorm:"default:0" json:"sales_generated"`

	Attachments []Attachment `gorm:"foreignKey:DeliverableID" json:"attachments,omitempty"`
}

func (Deliverable) TableName() string { return "deliverables" }

// Attachment 交付项附件（截图、素材、发布证明等）
type Attachment struct {
	BaseModel
	DeliverableID int64  `gorm:"index;not null" json:"deliverable_id"`
	FileName      string `gorm:"size:255" json:"file_name"`
	FileURL       string `gorm:"size:500" json:"file_url"`
	ContentType   string `gorm:"size:100" json:"content_type"`
	SizeBytes     int64  `gorm:"default:0" json:"size_bytes"`
}

func (Attachment) TableName() string { return "attachments" }
