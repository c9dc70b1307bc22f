package service

import (
	"context"
	"fmt"
	"log"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

// ==================== 达人服务 ====================

// KOLService 达人档案管理与数据刷新
type KOLService struct {
	kolRepo repository.KOLRepository
	tikwm   *TikWMService
	session *SessionService
}

// NewKOLService 创建达人服务
func NewKOLService(kolRepo repository.KOLRepository, tikwm *TikWMService, session *SessionService) *KOLService {
	return &KOLService{
		kolRepo: kolRepo,
		tikwm:   tikwm,
		session: session,
	}
}

// Create 创建达人档案，Tier 缺省按粉丝数推断
func (s *KOLService) Create(ctx context.Context, kol *model.KOL) error {
	if kol.Tier == "" {
		kol.Tier = InferTier(kol.Followers)
	}
	return s.kolRepo.Create(ctx, kol)
}

// Update 更新达人档案
func (s *KOLService) Update(ctx context.Context, kol *model.KOL) error {
	return s.kolRepo.Update(ctx, kol)
}

// GetByID 查询单个达人
func (s *KOLService) GetByID(ctx context.Context, id int64) (*model.KOL, error) {
	return s.kolRepo.GetByID(ctx, id)
}

// Delete 删除达人
func (s *KOLService) Delete(ctx context.Context, id int64) error {
	return s.kolRepo.Delete(ctx, id)
}

// List 分页查询达人
func (s *KOLService) List(ctx context.Context, filter repository.KOLFilter) ([]model.KOL, int64, error) {
	return s.kolRepo.List(ctx, filter)
}

// RefreshTikTokStats 从内容平台拉取达人最新粉丝数并写回档案
// userID 用于解析可用的会话凭证
func (s *KOLService) RefreshTikTokStats(ctx context.Context, id, userID int64) (*model.KOL, error) {
	kol, err := s.kolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if kol.TikTokUsername == "" {
		return nil, fmt.Errorf("达人未绑定 TikTok 账号")
	}

	cookie := s.session.Resolve(ctx, userID)
	profile, err := s.tikwm.StalkUser(ctx, kol.TikTokUsername, cookie)
	if err != nil {
		return nil, fmt.Errorf("拉取主页数据失败: %w", err)
	}

	fields := map[string]interface{}{
		"tik_tok_followers": profile.Followers,
	}
	// 主粉丝数取各平台最大值
	if profile.Followers > kol.InstagramFollowers {
		fields["followers"] = profile.Followers
		fields["tier"] = InferTier(profile.Followers)
	}

	if err := s.kolRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	log.Printf("[KOL] 刷新达人数据 id=%d followers=%d", id, profile.Followers)
	return s.kolRepo.GetByID(ctx, id)
}

// InferTier 按粉丝数推断达人级别
func InferTier(followers int64) string {
	switch {
	case followers >= 1_000_000:
		return model.KOLTierMega
	case followers >= 100_000:
		return model.KOLTierMacro
	case followers >= 10_000:
		return model.KOLTierMicro
	default:
		return model.KOLTierNano
	}
}
