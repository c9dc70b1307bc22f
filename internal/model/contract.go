package model

import "time"

// Contract 状态常量
const (
	ContractStatusDraft  = "draft"
	ContractStatusFinal  = "final"
	ContractStatusSigned = "signed"
)

// Contract 合作合同
// Template 保存原始模板（含 {KOL_NAME} 等占位符），Body 保存填充后的正文
type Contract struct {
	BaseModel
	Title    string `gorm:"size:255" json:"title"`
	Template string `gorm:"type:text" json:"template"`
	Body     string `gorm:"type:text" json:"body"`
	Status   string `gorm:"size:20;default:'draft'" json:"status"`

	KOLID      int64 `gorm:"index" json:"kol_id"`
	CampaignID int64 `gorm:"index" json:"campaign_id"`

	// 填充字段快照
	KOLName      string     `gorm:"size:255" json:"kol_name"`
	KOLNik       string     `gorm:"size:50" json:"kol_nik"` // 身份证号 (NIK)
	KOLAddress   string     `gorm:"type:text" json:"kol_address"`
	BrandName    string     `gorm:"size:255" json:"brand_name"`
	FeeAmount    int64      `gorm:"default:0" json:"fee_amount"`
	SOW          string     `gorm:"type:text" json:"sow"` // Scope of Work
	PaymentTerms string     `gorm:"type:text" json:"payment_terms"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

func (Contract) TableName() string { return "contracts" }
