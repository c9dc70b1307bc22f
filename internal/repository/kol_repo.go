package repository

import (
	"context"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// KOLRepository 达人仓储接口
type KOLRepository interface {
	Create(ctx context.Context, kol *model.KOL) error
	GetByID(ctx context.Context, id int64) (*model.KOL, error)
	Update(ctx context.Context, kol *model.KOL) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, filter KOLFilter) ([]model.KOL, int64, error)
	ListAll(ctx context.Context) ([]model.KOL, error)
}

// ==================== 过滤条件 ====================

// KOLFilter 达人过滤条件
type KOLFilter struct {
	Keyword  string // 按名称/账号模糊匹配
	Tier     string // 空表示不筛选
	Category string // 空表示不筛选
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type kolRepo struct {
	db *gorm.DB
}

// NewKOLRepository 创建达人仓储
func NewKOLRepository(db *gorm.DB) KOLRepository {
	return &kolRepo{db: db}
}

func (r *kolRepo) Create(ctx context.Context, kol *model.KOL) error {
	return r.db.WithContext(ctx).Create(kol).Error
}

func (r *kolRepo) GetByID(ctx context.Context, id int64) (*model.KOL, error) {
	var kol model.KOL
	if err := r.db.WithContext(ctx).First(&kol, id).Error; err != nil {
		return nil, err
	}
	return &kol, nil
}

func (r *kolRepo) Update(ctx context.Context, kol *model.KOL) error {
	return r.db.WithContext(ctx).Save(kol).Error
}

func (r *kolRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.KOL{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *kolRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.KOL{}, id).Error
}

func (r *kolRepo) List(ctx context.Context, filter KOLFilter) ([]model.KOL, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.KOL{})

	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where(
			"name LIKE ? OR tik_tok_username LIKE ? OR instagram_username LIKE ?",
			kw, kw, kw,
		)
	}
	if filter.Tier != "" {
		query = query.Where("tier = ?", filter.Tier)
	}
	if filter.Category != "" {
		// text[] 包含查询
		query = query.Where("? = ANY(categories)", filter.Category)
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

	var kols []model.KOL
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&kols).Error

	return kols, total, err
}

func (r *kolRepo) ListAll(ctx context.Context) ([]model.KOL, error) {
	var kols []model.KOL
	err := r.db.WithContext(ctx).Order("id ASC").Find(&kols).Error
	return kols, err
}
