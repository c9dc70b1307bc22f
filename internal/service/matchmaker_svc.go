package service

import (
	"context"
	"sort"
	"strings"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

// ==================== 智能匹配 ====================

// MatchResult 达人与活动的匹配结果
type MatchResult struct {
	KOL     model.KOL `json:"kol"`
	Score   int       `json:"score"`   // 0-100
	Reasons []string  `json:"reasons"` // 得分依据
}

// MatchmakerService 达人与活动的匹配打分
type MatchmakerService struct {
	kolRepo repository.KOLRepository
}

// NewMatchmakerService 创建匹配服务
func NewMatchmakerService(kolRepo repository.KOLRepository) *MatchmakerService {
	return &MatchmakerService{kolRepo: kolRepo}
}

// CalculateMatchScore 计算单个达人对活动的匹配分
// 维度：品类匹配 +20、平台账号存在 +20、投放目标契合 +40、预算内 +20 / 超预算 -20
// 最终分数截断到 [0, 100]
func (m *MatchmakerService) CalculateMatchScore(kol *model.KOL, campaign *model.Campaign, targetCategory string) (int, []string) {
	score := 0
	var reasons []string

	// 品类
	if targetCategory != "" {
		for _, c := range kol.Categories {
			if strings.EqualFold(c, targetCategory) {
				score += 20
				reasons = append(reasons, "品类匹配: "+c)
				break
			}
		}
	}

	// 平台账号
	switch campaign.Platform {
	case "Instagram":
		if kol.InstagramUsername != "" {
			score += 20
			reasons = append(reasons, "有 Instagram 账号")
		}
	default:
		if kol.TikTokUsername != "" {
			score += 20
			reasons = append(reasons, "有 TikTok 账号")
		}
	}

	// 目标契合：AWARENESS 偏好大体量，CONVERSION 偏好高互动的中小体量
	switch campaign.Objective {
	case model.ObjectiveAwareness:
		if kol.Tier == model.KOLTierMacro || kol.Tier == model.KOLTierMega {
			score += 40
			reasons = append(reasons, "大体量达人适合曝光目标")
		} else if kol.Tier == model.KOLTierMicro {
			score += 20
			reasons = append(reasons, "中等体量达人")
		}
	case model.ObjectiveConversion:
		if kol.Tier == model.KOLTierNano || kol.Tier == model.KOLTierMicro {
			score += 40
			reasons = append(reasons, "中小体量达人互动率高，适合转化目标")
		} else if kol.Tier == model.KOLTierMacro {
			score += 20
			reasons = append(reasons, "大体量达人转化成本偏高")
		}
	}

	// 预算
	rate := kol.RateCardTikTok
	if campaign.Platform == "Instagram" {
		rate = kol.RateCardReels
	}
	if rate > 0 && campaign.Budget > 0 {
		if rate <= campaign.Budget {
			score += 20
			reasons = append(reasons, "报价在预算内")
		} else {
			score -= 20
			reasons = append(reasons, "报价超出预算")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

// GetSmartRecommendations 对全量达人打分并按分数降序返回前 limit 个
func (m *MatchmakerService) GetSmartRecommendations(ctx context.Context, campaign *model.Campaign, targetCategory string, limit int) ([]MatchResult, error) {
	kols, err := m.kolRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MatchResult, 0, len(kols))
	for i := range kols {
		score, reasons := m.CalculateMatchScore(&kols[i], campaign, targetCategory)
		results = append(results, MatchResult{
			KOL:     kols[i],
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
