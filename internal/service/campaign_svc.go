package service

import (
	"context"
	"fmt"
	"path/filepath"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

// ==================== 活动汇总报表 ====================

// CampaignReport 活动效果汇总
type CampaignReport struct {
	Campaign     *model.Campaign `json:"campaign"`
	TotalSpend   int64           `json:"total_spend"`
	TotalViews   int64           `json:"total_views"`
	TotalEngaged int64           `json:"total_engagements"`
	EffectiveCPM float64         `json:"effective_cpm"` // 总花费 / 总播放 * 1000
	CPMVerdict   string          `json:"cpm_verdict"`
	MedianCPM    float64         `json:"median_cpm"` // 各交付项 CPM 中位数
	BudgetUsage  float64         `json:"budget_usage"` // 0-1，预算为 0 时为 0
}

// ==================== 活动服务 ====================

// CampaignService 活动与交付项管理
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	scorecard    *ScorecardService
	storage      StorageProvider
}

// NewCampaignService 创建活动服务
func NewCampaignService(campaignRepo repository.CampaignRepository, scorecard *ScorecardService, storage StorageProvider) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		scorecard:    scorecard,
		storage:      storage,
	}
}

// Create 创建活动
func (s *CampaignService) Create(ctx context.Context, campaign *model.Campaign) error {
	if campaign.Status == "" {
		campaign.Status = model.CampaignStatusDraft
	}
	return s.campaignRepo.Create(ctx, campaign)
}

// Update 更新活动
func (s *CampaignService) Update(ctx context.Context, campaign *model.Campaign) error {
	return s.campaignRepo.Update(ctx, campaign)
}

// GetByID 查询活动（含交付项和达人）
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	return s.campaignRepo.GetByIDWithDeliverables(ctx, id)
}

// Delete 删除活动
func (s *CampaignService) Delete(ctx context.Context, id int64) error {
	return s.campaignRepo.Delete(ctx, id)
}

// List 分页查询活动
func (s *CampaignService) List(ctx context.Context, filter repository.CampaignFilter) ([]model.Campaign, int64, error) {
	return s.campaignRepo.List(ctx, filter)
}

// GetReport 生成活动效果汇总报表
// 只统计已发布/已完成的交付项；播放为 0 的交付项不参与 CPM 中位数
func (s *CampaignService) GetReport(ctx context.Context, id int64) (*CampaignReport, error) {
	campaign, err := s.campaignRepo.GetByIDWithDeliverables(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &CampaignReport{Campaign: campaign}
	var cpms []float64

	for _, d := range campaign.Deliverables {
		if d.Status != model.DeliverablePosted && d.Status != model.DeliverableCompleted {
			continue
		}
		report.TotalSpend += d.Fee
		report.TotalViews += d.TotalViews
		report.TotalEngaged += d.TotalEngagements

		if d.TotalViews > 0 {
			cpms = append(cpms, s.scorecard.CalculateCPM(float64(d.Fee), d.TotalViews))
		}
	}

	report.EffectiveCPM = s.scorecard.CalculateCPM(float64(report.TotalSpend), report.TotalViews)
	report.CPMVerdict = s.scorecard.GetVerdict(report.EffectiveCPM)
	report.MedianCPM = s.scorecard.Median(cpms)

	if campaign.Budget > 0 {
		report.BudgetUsage = float64(report.TotalSpend) / float64(campaign.Budget)
	}
	return report, nil
}

// ==================== 交付项 ====================

// AddDeliverable 向活动添加交付项
func (s *CampaignService) AddDeliverable(ctx context.Context, d *model.Deliverable) error {
	if d.Status == "" {
		d.Status = model.DeliverableToContact
	}
	return s.campaignRepo.CreateDeliverable(ctx, d)
}

// UpdateDeliverable 更新交付项（状态流转、指标回填）
func (s *CampaignService) UpdateDeliverable(ctx context.Context, d *model.Deliverable) error {
	return s.campaignRepo.UpdateDeliverable(ctx, d)
}

// GetDeliverable 查询交付项
func (s *CampaignService) GetDeliverable(ctx context.Context, id int64) (*model.Deliverable, error) {
	return s.campaignRepo.GetDeliverableByID(ctx, id)
}

// DeleteDeliverable 删除交付项
func (s *CampaignService) DeleteDeliverable(ctx context.Context, id int64) error {
	return s.campaignRepo.DeleteDeliverable(ctx, id)
}

// ==================== 附件 ====================

// UploadAttachment 上传交付项附件（截图、发布证明等）
func (s *CampaignService) UploadAttachment(ctx context.Context, deliverableID int64, filename, contentType string, data []byte) (*model.Attachment, error) {
	if _, err := s.campaignRepo.GetDeliverableByID(ctx, deliverableID); err != nil {
		return nil, fmt.Errorf("交付项不存在: %w", err)
	}

	url, err := s.storage.Upload(ctx, data, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("上传附件失败: %w", err)
	}

	attachment := &model.Attachment{
		DeliverableID: deliverableID,
		FileName:      filepath.Base(filename),
		FileURL:       url,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
	}
	if err := s.campaignRepo.CreateAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// ListAttachments 列出交付项附件
func (s *CampaignService) ListAttachments(ctx context.Context, deliverableID int64) ([]model.Attachment, error) {
	return s.campaignRepo.ListAttachments(ctx, deliverableID)
}

// DeleteAttachment 删除附件（先删远端文件，再删记录）
func (s *CampaignService) DeleteAttachment(ctx context.Context, id int64, fileURL string) error {
	if fileURL != "" {
		// 远端删除失败不阻断记录删除
		_ = s.storage.Delete(ctx, fileURL)
	}
	return s.campaignRepo.DeleteAttachment(ctx, id)
}
