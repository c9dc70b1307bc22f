package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/service"
)

// InvoiceController 发票控制器
type InvoiceController struct {
	invoiceSvc *service.InvoiceService
}

// NewInvoiceController 创建发票控制器
func NewInvoiceController(invoiceSvc *service.InvoiceService) *InvoiceController {
	return &InvoiceController{invoiceSvc: invoiceSvc}
}

// List 发票列表
// @Summary 发票列表
// @Tags Invoice (发票管理)
// @Produce json
// @Param status query string false "状态 DRAFT/PENDING/PAID/OVERDUE"
// @Param kol_id query int false "达人ID"
// @Param campaign_id query int false "活动ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.Envelope{data=dto.PageResult}
// @Router /api/invoices [get]
func (c *InvoiceController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	kolID, _ := strconv.ParseInt(ctx.Query("kol_id"), 10, 64)
	campaignID, _ := strconv.ParseInt(ctx.Query("campaign_id"), 10, 64)

	filter := repository.InvoiceFilter{
		Status:     ctx.Query("status"),
		KOLID:      kolID,
		CampaignID: campaignID,
		Page:       page,
		PageSize:   pageSize,
	}

	invoices, total, err := c.invoiceSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(dto.PageResult{
		List:     invoices,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}))
}

// Get 发票详情
// @Summary 发票详情（含明细行）
// @Tags Invoice (发票管理)
// @Produce json
// @Param id path int true "发票ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/invoices/{id} [get]
func (c *InvoiceController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的发票ID"))
		return
	}

	invoice, err := c.invoiceSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("发票不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(invoice))
}

// Create 创建发票
// @Summary 创建发票
// @Description 编号自动生成，总额按明细行重算
// @Tags Invoice (发票管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Invoice true "发票信息"
// @Success 200 {object} dto.Envelope
// @Router /api/invoices [post]
func (c *InvoiceController) Create(ctx *gin.Context) {
	var invoice model.Invoice
	if err := ctx.ShouldBindJSON(&invoice); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}

	if err := c.invoiceSvc.Create(ctx.Request.Context(), &invoice); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(invoice, "发票已创建"))
}

// Update 更新发票
// @Summary 更新发票（明细整体替换）
// @Tags Invoice (发票管理)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Param request body model.Invoice true "发票信息"
// @Success 200 {object} dto.Envelope
// @Router /api/invoices/{id} [put]
func (c *InvoiceController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的发票ID"))
		return
	}

	existing, err := c.invoiceSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("发票不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	var invoice model.Invoice
	if err := ctx.ShouldBindJSON(&invoice); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}
	invoice.ID = existing.ID
	invoice.InvoiceNumber = existing.InvoiceNumber // 编号创建后不可改

	if err := c.invoiceSvc.Update(ctx.Request.Context(), &invoice); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(invoice))
}

// MarkPaid 标记已支付
// @Summary 标记发票已支付
// @Tags Invoice (发票管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} dto.Envelope
// @Router /api/invoices/{id}/pay [post]
func (c *InvoiceController) MarkPaid(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的发票ID"))
		return
	}

	if err := c.invoiceSvc.MarkPaid(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.Fail("发票不存在"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "发票已标记为已支付"))
}

// Delete 删除发票
// @Summary 删除发票及其明细
// @Tags Invoice (发票管理)
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} dto.Envelope
// @Router /api/invoices/{id} [delete]
func (c *InvoiceController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("无效的发票ID"))
		return
	}

	if err := c.invoiceSvc.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, "发票已删除"))
}

// ExportCSV 导出 CSV
// @Summary 导出发票列表为 CSV
// @Tags Invoice (发票管理)
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "状态筛选"
// @Success 200 {file} binary "CSV 文件"
// @Router /api/invoices/export [get]
func (c *InvoiceController) ExportCSV(ctx *gin.Context) {
	filter := repository.InvoiceFilter{Status: ctx.Query("status")}

	data, err := c.invoiceSvc.ExportCSV(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	filename := fmt.Sprintf("invoices_%s.csv", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
