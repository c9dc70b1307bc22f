package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

// contractBlank 未提供填充值时的占位下划线（纸面签字风格）
const contractBlank = "____________________"

// contractDateLayout 合同正文里的日期格式，如 "2 January 2006"
const contractDateLayout = "2 January 2006"

// ==================== 合同服务 ====================

// ContractService 合同模板填充与管理
type ContractService struct {
	contractRepo repository.ContractRepository
	kolRepo      repository.KOLRepository
}

// NewContractService 创建合同服务
func NewContractService(contractRepo repository.ContractRepository, kolRepo repository.KOLRepository) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		kolRepo:      kolRepo,
	}
}

// HydrateContract 用合同字段快照填充模板占位符，返回可签署正文
// 缺失字段填下划线占位而不是留空，保证纸面格式完整
func (s *ContractService) HydrateContract(c *model.Contract) string {
	body := c.Template

	replacements := map[string]string{
		"{KOL_NAME}":      orBlank(c.KOLName),
		"{KOL_NIK}":       orBlank(c.KOLNik),
		"{KOL_ADDRESS}":   orBlank(c.KOLAddress),
		"{BRAND_NAME}":    orBlank(c.BrandName),
		"{FEE_AMOUNT}":    formatContractFee(c.FeeAmount),
		"{SOW}":           orBlank(c.SOW),
		"{PAYMENT_TERMS}": orBlank(c.PaymentTerms),
		"{START_DATE}":    formatContractDate(c.StartDate),
		"{END_DATE}":      formatContractDate(c.EndDate),
		"{TODAY_DATE}":    time.Now().Format(contractDateLayout),
	}

	for placeholder, value := range replacements {
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return body
}

// Create 创建合同并立即生成填充正文
func (s *ContractService) Create(ctx context.Context, c *model.Contract) error {
	c.Body = s.HydrateContract(c)
	return s.contractRepo.Create(ctx, c)
}

// Update 更新合同字段并重新填充正文
func (s *ContractService) Update(ctx context.Context, c *model.Contract) error {
	c.Body = s.HydrateContract(c)
	return s.contractRepo.Update(ctx, c)
}

// GetByID 查询单个合同
func (s *ContractService) GetByID(ctx context.Context, id int64) (*model.Contract, error) {
	return s.contractRepo.GetByID(ctx, id)
}

// Delete 删除合同
func (s *ContractService) Delete(ctx context.Context, id int64) error {
	return s.contractRepo.Delete(ctx, id)
}

// List 分页查询合同
func (s *ContractService) List(ctx context.Context, filter repository.ContractFilter) ([]model.Contract, int64, error) {
	return s.contractRepo.List(ctx, filter)
}

// PrefillFromKOL 从达人档案预填合同字段（姓名、费率）
func (s *ContractService) PrefillFromKOL(ctx context.Context, c *model.Contract, kolID int64) error {
	kol, err := s.kolRepo.GetByID(ctx, kolID)
	if err != nil {
		return fmt.Errorf("达人不存在: %w", err)
	}
	c.KOLID = kol.ID
	if c.KOLName == "" {
		c.KOLName = kol.Name
	}
	if c.FeeAmount == 0 {
		c.FeeAmount = kol.RateCardTikTok
	}
	return nil
}

// ==================== 填充辅助 ====================

func orBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return contractBlank
	}
	return s
}

func formatContractDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return contractBlank
	}
	return t.Format(contractDateLayout)
}

func formatContractFee(amount int64) string {
	if amount <= 0 {
		return contractBlank
	}
	return (&ScorecardService{}).FormatIDR(float64(amount))
}
