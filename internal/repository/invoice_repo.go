package repository

import (
	"context"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// InvoiceRepository 发票仓储接口
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)

	// ReplaceItems 整体替换明细行（编辑发票时先删后插，同一事务）
	ReplaceItems(ctx context.Context, invoiceID int64, items []model.InvoiceItem) error
}

// ==================== 过滤条件 ====================

// InvoiceFilter 发票过滤条件
type InvoiceFilter struct {
	Status     string
	KOLID      int64
	CampaignID int64
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type invoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓储
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").First(&invoice, id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", number).
		First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Invoice{}, id).Error
	})
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.KOLID > 0 {
		query = query.Where("kol_id = ?", filter.KOLID)
	}
	if filter.CampaignID > 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var invoices []model.Invoice
	err := query.
		Preload("Items").
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepo) ReplaceItems(ctx context.Context, invoiceID int64, items []model.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).
			Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].InvoiceID = invoiceID
		}
		return tx.Create(&items).Error
	})
}
