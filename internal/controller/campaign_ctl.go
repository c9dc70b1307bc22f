package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/service"
)

// 单个附件大小上限
const maxAttachmentSize = 20 << 20 // 20MB

// CampaignController 活动与交付项控制器
type CampaignController struct {
	campaignSvc   *service.CampaignService
	matchmakerSvc *service.MatchmakerService
	aiSvc         *service.AIService
	kolSvc        *service.KOLService
}

// NewCampaignController 创建活动控制器
func NewCampaignController(campaignSvc *service.CampaignService, matchmakerSvc *service.MatchmakerService, aiSvc *service.AIService, kolSvc *service.KOLService) *CampaignController {
	return &CampaignController{
		campaignSvc:   campaignSvc,
		matchmakerSvc: matchmakerSvc,
		aiSvc:         aiSvc,
		kolSvc:        kolSvc,
	}
}

// ==================== 活动 CRUD ====================

// List 活动列表
// @Summary 活动列表
// @Tags Campaign (活动管理)
// @Produce json
// @Param keyword query string false "名称关键词"
// @Param status query string false "状态 Draft/Active/Completed"
// @Param platform query string false "平台 TikTok/Instagram"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.Envelope{data=dto.PageResult}
// @Router /api/campaigns [get]
func (c *CampaignController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.CampaignFilter{
		Keyword:  ctx.Query("keyword"),
		Status:   ctx.Query("status"),
		Platform: ctx.Query("platform"),
		Page:     page,
		PageSize: pageSize,
	}

	campaigns, total, err := c.campaignSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(dto.PageResult{
		List:     campaigns,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}))
}

// Get 活动详情（含交付项）
// @Summary 活动详情
// @Tags Campaign (活动管理)
// @Produce json
// @Param id path int true "活动ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/campaigns/{id} [get]
func (c *CampaignController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}

	campaign, err := c.campaignSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("活动不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(campaign))
}

// Create 创建活动
// @Summary 创建活动
// @Tags Campaign (活动管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Campaign true "活动信息"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns [post]
func (c *CampaignController) Create(ctx *gin.Context) {
	var campaign model.Campaign
	if err := ctx.ShouldBindJSON(&campaign); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	if campaign.Name == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: name 不能为空"))
		return
	}

	if err := c.campaignSvc.Create(ctx.Request.Context(), &campaign); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(campaign, "活动已创建"))
}

// Update 更新活动
// @Summary 更新活动
// @Tags Campaign (活动管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param request body model.Campaign true "活动信息"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id} [put]
func (c *CampaignController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}

	var campaign model.Campaign
	if err := ctx.ShouldBindJSON(&campaign); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	campaign.ID = id
	campaign.Deliverables = nil // 交付项走独立接口，避免级联覆盖

	if err := c.campaignSvc.Update(ctx.Request.Context(), &campaign); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(campaign))
}

// Delete 删除活动
// @Summary 删除活动
// @Tags Campaign (活动管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id} [delete]
func (c *CampaignController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}

	if err := c.campaignSvc.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "活动已删除"))
}

// GetReport 活动效果汇总
// @Summary 活动效果汇总报表
// @Description 总花费、总播放、综合 CPM 及评级
// @Tags Campaign (活动管理)
// @Produce json
// @Param id path int true "活动ID"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id}/report [get]
func (c *CampaignController) GetReport(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}

	report, err := c.campaignSvc.GetReport(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("活动不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(report))
}

// ==================== 智能匹配 ====================

// GetRecommendations 智能推荐达人
// @Summary 智能推荐达人
// @Description 按品类、平台、目标、预算四个维度对全量达人打分排序
// @Tags Campaign (活动管理)
// @Produce json
// @Param id path int true "活动ID"
// @Param category query string false "目标品类"
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id}/recommendations [get]
func (c *CampaignController) GetRecommendations(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	campaign, err := c.campaignSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("活动不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	results, err := c.matchmakerSvc.GetSmartRecommendations(
		ctx.Request.Context(), campaign, ctx.Query("category"), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(results))
}

// GenerateBrief AI 生成合作邀约
// @Summary AI 生成合作邀约文案
// @Tags Campaign (活动管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param kol_id query int true "达人ID"
// @Param instruction query string false "额外指令"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id}/brief [post]
func (c *CampaignController) GenerateBrief(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}
	kolID, err := strconv.ParseInt(ctx.Query("kol_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的达人ID"))
		return
	}

	campaign, err := c.campaignSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.Fail("活动不存在"))
		return
	}
	kol, err := c.kolSvc.GetByID(ctx.Request.Context(), kolID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.Fail("达人不存在"))
		return
	}

	brief, err := c.aiSvc.GenerateCampaignBrief(ctx.Request.Context(), campaign, kol, ctx.Query("instruction"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(brief))
}

// ==================== 交付项 ====================

// AddDeliverable 添加交付项
// @Summary 向活动添加交付项
// @Tags Campaign (交付项)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param request body model.Deliverable true "交付项信息"
// @Success 200 {object} dto.Envelope
// @Router /api/campaigns/{id}/deliverables [post]
func (c *CampaignController) AddDeliverable(ctx *gin.Context) {
	campaignID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的活动ID"))
		return
	}

	var d model.Deliverable
	if err := ctx.ShouldBindJSON(&d); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	if d.KOLID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: kol_id 不能为空"))
		return
	}
	d.CampaignID = campaignID

	if err := c.campaignSvc.AddDeliverable(ctx.Request.Context(), &d); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(d, "交付项已添加"))
}

// UpdateDeliverable 更新交付项
// @Summary 更新交付项（状态流转、指标回填）
// @Tags Campaign (交付项)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交付项ID"
// @Param request body model.Deliverable true "交付项信息"
// @Success 200 {object} dto.Envelope
// @Router /api/deliverables/{id} [put]
func (c *CampaignController) UpdateDeliverable(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的交付项ID"))
		return
	}

	existing, err := c.campaignSvc.GetDeliverable(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("交付项不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	var d model.Deliverable
	if err := ctx.ShouldBindJSON(&d); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	d.ID = existing.ID
	d.CampaignID = existing.CampaignID
	if d.KOLID == 0 {
		d.KOLID = existing.KOLID
	}
	d.KOL = nil

	if err := c.campaignSvc.UpdateDeliverable(ctx.Request.Context(), &d); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(d))
}

// DeleteDeliverable 删除交付项
// @Summary 删除交付项
// @Tags Campaign (交付项)
// @Produce json
// @Security BearerAuth
// @Param id path int true "交付项ID"
// @Success 200 {object} dto.Envelope
// @Router /api/deliverables/{id} [delete]
func (c *CampaignController) DeleteDeliverable(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的交付项ID"))
		return
	}

	if err := c.campaignSvc.DeleteDeliverable(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "交付项已删除"))
}

// ==================== 附件 ====================

// UploadAttachment 上传附件
// @Summary 上传交付项附件
// @Description multipart 上传，单个文件不超过 20MB
// @Tags Campaign (交付项)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "交付项ID"
// @Param file formData file true "附件文件"
// @Success 200 {object} dto.Envelope
// @Router /api/deliverables/{id}/attachments [post]
func (c *CampaignController) UploadAttachment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的交付项ID"))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: 缺少 file 字段"))
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		ctx.JSON(http.StatusBadRequest, dto.Fail("文件超过 20MB 限制"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	attachment, err := c.campaignSvc.UploadAttachment(
		ctx.Request.Context(), id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(attachment, "附件已上传"))
}

// ListAttachments 附件列表
// @Summary 交付项附件列表
// @Tags Campaign (交付项)
// @Produce json
// @Param id path int true "交付项ID"
// @Success 200 {object} dto.Envelope
// @Router /api/deliverables/{id}/attachments [get]
func (c *CampaignController) ListAttachments(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的交付项ID"))
		return
	}

	list, err := c.campaignSvc.ListAttachments(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(list))
}

// DeleteAttachment 删除附件
// @Summary 删除附件
// @Tags Campaign (交付项)
// @Produce json
// @Security BearerAuth
// @Param id path int true "附件ID"
// @Param file_url query string false "附件 URL，用于同时删除远端文件"
// @Success 200 {object} dto.Envelope
// @Router /api/attachments/{id} [delete]
func (c *CampaignController) DeleteAttachment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的附件ID"))
		return
	}

	if err := c.campaignSvc.DeleteAttachment(ctx.Request.Context(), id, ctx.Query("file_url")); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "附件已删除"))
}
