package model

import "time"

// Invoice 状态常量
const (
	InvoiceStatusDraft   = "DRAFT"
	InvoiceStatusPending = "PENDING"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusOverdue = "OVERDUE"
)

// Invoice 发票
type Invoice struct {
	BaseModel
	InvoiceNumber    string     `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"` // INV-{YYYY}{MM}-{xxx}
	RecipientName    string     `gorm:"size:255" json:"recipient_name"`
	RecipientAddress string     `gorm:"type:text" json:"recipient_address"`
	TotalAmount      int64      `gorm:"default:0" json:"total_amount"` // IDR，由明细汇总
	Status           string     `gorm:"size:20;default:'DRAFT'" json:"status"`
	IssuedDate       time.Time  `json:"issued_date"`
	DueDate          *time.Time `json:"due_date"`
	PaidAt           *time.Time `json:"paid_at"`

	// 关联（可选）
	KOLID      int64 `gorm:"index" json:"kol_id"`
	CampaignID int64 `gorm:"index" json:"campaign_id"`

	// 收款银行快照（开票时固化，后续改设置不影响已开发票）
	BankName        string `gorm:"size:100" json:"bank_name"`
	BankAccountNo   string `gorm:"size:50" json:"bank_account_no"`
	BankAccountName string `gorm:"size:255" json:"bank_account_name"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem 发票明细行
type InvoiceItem struct {
	BaseModel
	InvoiceID   int64  `gorm:"index;not null" json:"invoice_id"`
	Description string `gorm:"size:500" json:"description"`
	Quantity    int    `gorm:"default:1" json:"quantity"`
	Price       int64  `gorm:"default:0" json:"price"`
	Total       int64  `gorm:"default:0" json:"total"` // Quantity * Price
}

func (InvoiceItem) TableName() string { return "invoice_items" }
