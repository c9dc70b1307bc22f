package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/service"
)

// ContractController 合同控制器
type ContractController struct {
	contractSvc *service.ContractService
}

// NewContractController 创建合同控制器
func NewContractController(contractSvc *service.ContractService) *ContractController {
	return &ContractController{contractSvc: contractSvc}
}

// List 合同列表
// @Summary 合同列表
// @Tags Contract (合同管理)
// @Produce json
// @Param kol_id query int false "达人ID"
// @Param campaign_id query int false "活动ID"
// @Param status query string false "状态 draft/final/signed"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.Envelope{data=dto.PageResult}
// @Router /api/contracts [get]
func (c *ContractController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	kolID, _ := strconv.ParseInt(ctx.Query("kol_id"), 10, 64)
	campaignID, _ := strconv.ParseInt(ctx.Query("campaign_id"), 10, 64)

	filter := repository.ContractFilter{
		KOLID:      kolID,
		CampaignID: campaignID,
		Status:     ctx.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	contracts, total, err := c.contractSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(dto.PageResult{
		List:     contracts,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}))
}

// Get 合同详情
// @Summary 合同详情（含填充后正文）
// @Tags Contract (合同管理)
// @Produce json
// @Param id path int true "合同ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/contracts/{id} [get]
func (c *ContractController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的合同ID"))
		return
	}

	contract, err := c.contractSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("合同不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(contract))
}

// Create 创建合同
// @Summary 创建合同
// @Description 传入 kol_id 时自动预填达人姓名与报价，正文按模板占位符填充生成
// @Tags Contract (合同管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Contract true "合同信息"
// @Success 200 {object} dto.Envelope
// @Router /api/contracts [post]
func (c *ContractController) Create(ctx *gin.Context) {
	var contract model.Contract
	if err := ctx.ShouldBindJSON(&contract); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	if contract.Template == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: template 不能为空"))
		return
	}

	if contract.KOLID > 0 {
		if err := c.contractSvc.PrefillFromKOL(ctx.Request.Context(), &contract, contract.KOLID); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
			return
		}
	}

	if err := c.contractSvc.Create(ctx.Request.Context(), &contract); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(contract, "合同已创建"))
}

// Update 更新合同
// @Summary 更新合同（正文自动重新填充）
// @Tags Contract (合同管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "合同ID"
// @Param request body model.Contract true "合同信息"
// @Success 200 {object} dto.Envelope
// @Router /api/contracts/{id} [put]
func (c *ContractController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的合同ID"))
		return
	}

	existing, err := c.contractSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("合同不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	var contract model.Contract
	if err := ctx.ShouldBindJSON(&contract); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	contract.ID = existing.ID
	contract.CreatedAt = existing.CreatedAt
	if contract.Template == "" {
		contract.Template = existing.Template
	}

	if err := c.contractSvc.Update(ctx.Request.Context(), &contract); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(contract))
}

// Delete 删除合同
// @Summary 删除合同
// @Tags Contract (合同管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "合同ID"
// @Success 200 {object} dto.Envelope
// @Router /api/contracts/{id} [delete]
func (c *ContractController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的合同ID"))
		return
	}

	if err := c.contractSvc.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "合同已删除"))
}
