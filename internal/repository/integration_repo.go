package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// IntegrationRepository 第三方授权记录仓储接口
type IntegrationRepository interface {
	// Upsert 以 (platform, shop_id) 为键覆盖写入，授权回调用
	Upsert(ctx context.Context, record *model.Integration) error

	// GetByPlatform 取该平台当前生效的记录（第一条），无记录返回 gorm.ErrRecordNotFound
	GetByPlatform(ctx context.Context, platform string) (*model.Integration, error)

	// DeleteByPlatform 删除该平台全部记录，0 行也算成功（幂等断开）
	DeleteByPlatform(ctx context.Context, platform string) error

	// UpdateToken Token 刷新后更新令牌对
	UpdateToken(ctx context.Context, id int64, accessToken, refreshToken string, accessExpire, refreshExpire int64) error

	// UpdateTokenStatus 标记 Token 状态（刷新失败时置为 expired/auth_invalid）
	UpdateTokenStatus(ctx context.Context, id int64, status string) error

	// FindExpiring 查出 access token 将在 before 时间戳前过期且仍为 valid 的记录
	FindExpiring(ctx context.Context, before int64) ([]model.Integration, error)
}

// ==================== 仓储实现 ====================

type integrationRepo struct {
	db *gorm.DB
}

// NewIntegrationRepository 创建授权记录仓储
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepo{db: db}
}

func (r *integrationRepo) Upsert(ctx context.Context, record *model.Integration) error {
	// 冲突键为 (platform, shop_id)，覆盖令牌与店铺信息
	// 无乐观锁：同键并发写为 last-write-wins
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "shop_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token",
			"access_token_expire_in", "refresh_token_expire_in",
			"seller_name", "token_status", "updated_at",
		}),
	}).Create(record).Error
}

func (r *integrationRepo) GetByPlatform(ctx context.Context, platform string) (*model.Integration, error) {
	var record model.Integration
	if err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("id ASC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *integrationRepo) DeleteByPlatform(ctx context.Context, platform string) error {
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Delete(&model.Integration{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (r *integrationRepo) UpdateToken(ctx context.Context, id int64, accessToken, refreshToken string, accessExpire, refreshExpire int64) error {
	return r.db.WithContext(ctx).Model(&model.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token":            accessToken,
			"refresh_token":           refreshToken,
			"access_token_expire_in":  accessExpire,
			"refresh_token_expire_in": refreshExpire,
			"token_status":            model.TokenStatusValid,
		}).Error
}

func (r *integrationRepo) UpdateTokenStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&model.Integration{}).
		Where("id = ?", id).
		Update("token_status", status).Error
}

func (r *integrationRepo) FindExpiring(ctx context.Context, before int64) ([]model.Integration, error) {
	var records []model.Integration
	err := r.db.WithContext(ctx).
		Where("token_status = ?", model.TokenStatusValid).
		Where("access_token_expire_in > 0 AND access_token_expire_in < ?", before).
		Find(&records).Error
	return records, err
}
