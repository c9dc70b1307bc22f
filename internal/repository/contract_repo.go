package repository

import (
	"context"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ContractRepository 合同仓储接口
type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, id int64) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ContractFilter) ([]model.Contract, int64, error)
}

// ==================== 过滤条件 ====================

// ContractFilter 合同过滤条件
type ContractFilter struct {
	KOLID      int64
	CampaignID int64
	Status     string
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type contractRepo struct {
	db *gorm.DB
}

// NewContractRepository 创建合同仓储
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepo) GetByID(ctx context.Context, id int64) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).First(&contract, id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepo) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Contract{}, id).Error
}

func (r *contractRepo) List(ctx context.Context, filter ContractFilter) ([]model.Contract, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Contract{})

	if filter.KOLID > 0 {
		query = query.Where("kol_id = ?", filter.KOLID)
	}
	if filter.CampaignID > 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var contracts []model.Contract
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&contracts).Error

	return contracts, total, err
}
