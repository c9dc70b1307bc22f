package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/pkg/utils"
)

// ErrNoConnection 当前平台没有已授权的店铺，上层映射为 404
var ErrNoConnection = errors.New("No connected TikTok Shop account found.")

// ==================== 授权编排 ====================

// IntegrationService TikTok Shop 授权生命周期编排
// 连接（OAuth 回调换令牌 + 落库）、断开、状态查询、令牌刷新
type IntegrationService struct {
	integrationRepo repository.IntegrationRepository
	shopClient      *TikTokShopService
}

// NewIntegrationService 创建授权编排服务
func NewIntegrationService(integrationRepo repository.IntegrationRepository, shopClient *TikTokShopService) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		shopClient:      shopClient,
	}
}

// StartAuth 生成授权跳转 URL，state 进缓存用于回调校验
func (s *IntegrationService) StartAuth() (string, error) {
	state, err := utils.GenerateRandomString(16)
	if err != nil {
		return "", err
	}
	utils.SetCache(state, "tiktok_auth")
	return s.shopClient.GetAuthURL(state), nil
}

// HandleCallback 处理授权回调：校验 state、换取令牌、覆盖写入授权记录
func (s *IntegrationService) HandleCallback(ctx context.Context, code, state string) (*model.Integration, error) {
	if _, exists := utils.GetCache(state); !exists {
		return nil, fmt.Errorf("授权超时或 state 无效，请重新发起")
	}
	utils.DeleteCache(state)

	tokenResp, err := s.shopClient.GetAccessToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if tokenResp.Code != 0 {
		return nil, fmt.Errorf("换取令牌失败: %s", tokenResp.Message)
	}

	data := tokenResp.Data
	record := &model.Integration{
		Platform:             model.PlatformTikTokShop,
		ShopID:               data.ShopID,
		AccessToken:          data.AccessToken,
		RefreshToken:         data.RefreshToken,
		AccessTokenExpireIn:  data.AccessTokenExpireIn,
		RefreshTokenExpireIn: data.RefreshTokenExpireIn,
		SellerName:           data.SellerName,
		TokenStatus:          model.TokenStatusValid,
	}
	if err := s.integrationRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("保存授权记录失败: %w", err)
	}

	log.Printf("[Integration] 店铺授权成功 shop_id=%s seller=%s", data.ShopID, data.SellerName)
	return record, nil
}

// GetStatus 查询当前连接状态，无记录返回 connected=false 而非错误
func (s *IntegrationService) GetStatus(ctx context.Context) (connected bool, record *model.Integration, err error) {
	record, err = s.integrationRepo.GetByPlatform(ctx, model.PlatformTikTokShop)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, record, nil
}

// Disconnect 断开授权，无记录也算成功（幂等）
func (s *IntegrationService) Disconnect(ctx context.Context) error {
	return s.integrationRepo.DeleteByPlatform(ctx, model.PlatformTikTokShop)
}

// GetCreatorProfile 用当前授权拉取卖家信息，无授权返回 ErrNoConnection
func (s *IntegrationService) GetCreatorProfile(ctx context.Context) (json.RawMessage, error) {
	record, err := s.integrationRepo.GetByPlatform(ctx, model.PlatformTikTokShop)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoConnection
	}
	if err != nil {
		return nil, err
	}

	profileResp, err := s.shopClient.GetCreatorProfile(ctx, record.AccessToken)
	if err != nil {
		return nil, err
	}
	if profileResp.Code != 0 {
		return nil, fmt.Errorf("拉取卖家信息失败: %s", profileResp.Message)
	}
	return profileResp.Data, nil
}

// RefreshToken 刷新单条授权记录的令牌
// 刷新失败时把记录标记为 expired，等待手动重新授权
func (s *IntegrationService) RefreshToken(ctx context.Context, record *model.Integration) error {
	tokenResp, err := s.shopClient.RefreshAccessToken(ctx, record.RefreshToken)
	if err == nil && tokenResp.Code != 0 {
		err = fmt.Errorf("上游拒绝刷新: %s", tokenResp.Message)
	}
	if err != nil {
		if markErr := s.integrationRepo.UpdateTokenStatus(ctx, record.ID, model.TokenStatusExpired); markErr != nil {
			log.Printf("[Integration] 标记令牌过期失败 id=%d: %v", record.ID, markErr)
		}
		return fmt.Errorf("刷新令牌失败 id=%d: %w", record.ID, err)
	}

	data := tokenResp.Data
	return s.integrationRepo.UpdateToken(ctx, record.ID,
		data.AccessToken, data.RefreshToken,
		data.AccessTokenExpireIn, data.RefreshTokenExpireIn)
}

// FindExpiring 查出即将过期的授权记录（定时刷新任务用）
func (s *IntegrationService) FindExpiring(ctx context.Context, before int64) ([]model.Integration, error) {
	return s.integrationRepo.FindExpiring(ctx, before)
}
