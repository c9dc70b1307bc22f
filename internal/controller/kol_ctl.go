package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/middleware"
	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/service"
)

// KOLController 达人档案控制器
type KOLController struct {
	kolSvc *service.KOLService
}

// NewKOLController 创建达人控制器
func NewKOLController(kolSvc *service.KOLService) *KOLController {
	return &KOLController{kolSvc: kolSvc}
}

// List 达人列表
// @Summary 达人列表
// @Description 分页查询，支持关键词、级别、品类筛选
// @Tags KOL (达人管理)
// @Produce json
// @Param keyword query string false "名称/账号关键词"
// @Param tier query string false "级别 Nano/Micro/Macro/Mega"
// @Param category query string false "品类标签"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.Envelope{data=dto.PageResult}
// @Router /api/kols [get]
func (c *KOLController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.KOLFilter{
		Keyword:  ctx.Query("keyword"),
		Tier:     ctx.Query("tier"),
		Category: ctx.Query("category"),
		Page:     page,
		PageSize: pageSize,
	}

	kols, total, err := c.kolSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(dto.PageResult{
		List:     kols,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}))
}

// Get 达人详情
// @Summary 达人详情
// @Tags KOL (达人管理)
// @Produce json
// @Param id path int true "达人ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/kols/{id} [get]
func (c *KOLController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的达人ID"))
		return
	}

	kol, err := c.kolSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("达人不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(kol))
}

// Create 创建达人
// @Summary 创建达人档案
// @Tags KOL (达人管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.KOL true "达人信息"
// @Success 200 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Router /api/kols [post]
func (c *KOLController) Create(ctx *gin.Context) {
	var kol model.KOL
	if err := ctx.ShouldBindJSON(&kol); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	if kol.Name == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: name 不能为空"))
		return
	}

	if err := c.kolSvc.Create(ctx.Request.Context(), &kol); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(kol, "达人已创建"))
}

// Update 更新达人
// @Summary 更新达人档案
// @Tags KOL (达人管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "达人ID"
// @Param request body model.KOL true "达人信息"
// @Success 200 {object} dto.Envelope
// @Router /api/kols/{id} [put]
func (c *KOLController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的达人ID"))
		return
	}

	existing, err := c.kolSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("达人不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	var kol model.KOL
	if err := ctx.ShouldBindJSON(&kol); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	kol.ID = existing.ID
	kol.CreatedAt = existing.CreatedAt

	if err := c.kolSvc.Update(ctx.Request.Context(), &kol); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(kol))
}

// Delete 删除达人
// @Summary 删除达人档案
// @Tags KOL (达人管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "达人ID"
// @Success 200 {object} dto.Envelope
// @Router /api/kols/{id} [delete]
func (c *KOLController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的达人ID"))
		return
	}

	if err := c.kolSvc.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "达人已删除"))
}

// RefreshStats 刷新达人平台数据
// @Summary 刷新达人 TikTok 数据
// @Description 从内容平台拉取最新粉丝数并写回档案，同一达人 1 分钟内只允许刷新一次
// @Tags KOL (达人管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "达人ID"
// @Success 200 {object} dto.Envelope
// @Failure 429 {object} dto.Envelope
// @Router /api/kols/{id}/refresh [post]
func (c *KOLController) RefreshStats(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的达人ID"))
		return
	}

	userID := middleware.GetUserID(ctx)
	kol, err := c.kolSvc.RefreshTikTokStats(ctx.Request.Context(), id, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(kol, "达人数据已刷新"))
}
