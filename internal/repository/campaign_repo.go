package repository

import (
	"context"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// CampaignRepository 活动仓储接口
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	GetByIDWithDeliverables(ctx context.Context, id int64) (*model.Campaign, error)
	Update(ctx context.Context, campaign *model.Campaign) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CampaignFilter) ([]model.Campaign, int64, error)

	// Deliverable 相关
	CreateDeliverable(ctx context.Context, d *model.Deliverable) error
	GetDeliverableByID(ctx context.Context, id int64) (*model.Deliverable, error)
	UpdateDeliverable(ctx context.Context, d *model.Deliverable) error
	DeleteDeliverable(ctx context.Context, id int64) error

	// 附件相关
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	ListAttachments(ctx context.Context, deliverableID int64) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error
}

// ==================== 过滤条件 ====================

// CampaignFilter 活动过滤条件
type CampaignFilter struct {
	Keyword  string
	Status   string // 空表示不筛选
	Platform string
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type campaignRepo struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓储
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepo) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepo) GetByIDWithDeliverables(ctx context.Context, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.WithContext(ctx).
		Preload("Deliverables").
		Preload("Deliverables.KOL").
		First(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepo) Update(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *campaignRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Campaign{}, id).Error
}

func (r *campaignRepo) List(ctx context.Context, filter CampaignFilter) ([]model.Campaign, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Campaign{})

	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
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

	var campaigns []model.Campaign
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&campaigns).Error

	return campaigns, total, err
}

// ==================== Deliverable ====================

func (r *campaignRepo) CreateDeliverable(ctx context.Context, d *model.Deliverable) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *campaignRepo) GetDeliverableByID(ctx context.Context, id int64) (*model.Deliverable, error) {
	var d model.Deliverable
	if err := r.db.WithContext(ctx).Preload("KOL").First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *campaignRepo) UpdateDeliverable(ctx context.Context, d *model.Deliverable) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *campaignRepo) DeleteDeliverable(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Deliverable{}, id).Error
}

// ==================== Attachment ====================

func (r *campaignRepo) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *campaignRepo) ListAttachments(ctx context.Context, deliverableID int64) ([]model.Attachment, error) {
	var list []model.Attachment
	err := r.db.WithContext(ctx).
		Where("deliverable_id = ?", deliverableID).
		Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *campaignRepo) DeleteAttachment(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Attachment{}, id).Error
}
