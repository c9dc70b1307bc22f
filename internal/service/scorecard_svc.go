package service

import (
	"fmt"
	"sort"
	"strings"
)

// ==================== 投放效果评分 ====================

// CPM 评级分界线（IDR / 千次播放），数值越低性价比越高
const (
	cpmExcellentMax = 1000
	cpmGoodMax      = 5000
	cpmFairMax      = 15000
	cpmPoorMax      = 25000
)

// ScorecardService 投放效果评分计算
// 纯计算，不依赖外部服务
type ScorecardService struct{}

// NewScorecardService 创建评分服务
func NewScorecardService() *ScorecardService {
	return &ScorecardService{}
}

// CalculateCPM 千次播放成本 = 费用 / 播放量 * 1000
// 播放量为 0 时返回 0，避免除零
func (s *ScorecardService) CalculateCPM(fee float64, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return fee / float64(views) * 1000
}

// Average 算术平均，空切片返回 0
func (s *ScorecardService) Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median 中位数，偶数个取中间两数均值，空切片返回 0
func (s *ScorecardService) Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// GetVerdict CPM 评级
// 边界值归入更好的档位（恰好 1000 算 excellent）
func (s *ScorecardService) GetVerdict(cpm float64) string {
	switch {
	case cpm <= 0:
		return "no_data"
	case cpm <= cpmExcellentMax:
		return "excellent"
	case cpm <= cpmGoodMax:
		return "good"
	case cpm <= cpmFairMax:
		return "fair"
	case cpm <= cpmPoorMax:
		return "poor"
	default:
		return "very_poor"
	}
}

// FormatIDR 印尼盾金额格式化，千分位用点号：1500000 -> "Rp 1.500.000"
func (s *ScorecardService) FormatIDR(amount float64) string {
	n := int64(amount)
	negative := n < 0
	if negative {
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	result := "Rp " + strings.Join(parts, ".")
	if negative {
		result = "-" + result
	}
	return result
}
