package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

// ==================== 发票服务 ====================

// InvoiceService 发票管理（编号生成、金额汇总、导出）
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(invoiceRepo repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// GenerateInvoiceNumber 生成发票编号 INV-{YYYY}{MM}-{三位随机数}
// 撞编号时重试，编号列有唯一索引兜底
func (s *InvoiceService) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	now := time.Now()
	prefix := fmt.Sprintf("INV-%04d%02d-", now.Year(), int(now.Month()))

	for attempt := 0; attempt < 10; attempt++ {
		number := prefix + strconv.Itoa(100+rand.Intn(900))
		_, err := s.invoiceRepo.GetByNumber(ctx, number)
		if err == gorm.ErrRecordNotFound {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("发票编号生成失败，当月编号空间耗尽")
}

// RecalculateTotals 重算每行小计和发票总额
// Total 始终以 Quantity * Price 为准，忽略请求里传入的值
func (s *InvoiceService) RecalculateTotals(invoice *model.Invoice) {
	var total int64
	for i := range invoice.Items {
		if invoice.Items[i].Quantity <= 0 {
			invoice.Items[i].Quantity = 1
		}
		invoice.Items[i].Total = int64(invoice.Items[i].Quantity) * invoice.Items[i].Price
		total += invoice.Items[i].Total
	}
	invoice.TotalAmount = total
}

// Create 创建发票：自动编号、汇总金额
func (s *InvoiceService) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.InvoiceNumber == "" {
		number, err := s.GenerateInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
	}
	if invoice.IssuedDate.IsZero() {
		invoice.IssuedDate = time.Now()
	}
	if invoice.Status == "" {
		invoice.Status = model.InvoiceStatusDraft
	}
	s.RecalculateTotals(invoice)
	return s.invoiceRepo.Create(ctx, invoice)
}

// Update 更新发票：明细整体替换、金额重算
func (s *InvoiceService) Update(ctx context.Context, invoice *model.Invoice) error {
	s.RecalculateTotals(invoice)
	if err := s.invoiceRepo.ReplaceItems(ctx, invoice.ID, invoice.Items); err != nil {
		return err
	}
	items := invoice.Items
	invoice.Items = nil // 避免 Save 级联重复写明细
	err := s.invoiceRepo.Update(ctx, invoice)
	invoice.Items = items
	return err
}

// MarkPaid 标记已支付并记录支付时间
func (s *InvoiceService) MarkPaid(ctx context.Context, id int64) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	invoice.Status = model.InvoiceStatusPaid
	invoice.PaidAt = &now
	items := invoice.Items
	invoice.Items = nil
	err = s.invoiceRepo.Update(ctx, invoice)
	invoice.Items = items
	return err
}

// GetByID 查询单张发票（含明细）
func (s *InvoiceService) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// Delete 删除发票及其明细
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.invoiceRepo.Delete(ctx, id)
}

// List 分页查询发票
func (s *InvoiceService) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, filter)
}

// ExportCSV 导出发票列表为 CSV（财务对账用）
func (s *InvoiceService) ExportCSV(ctx context.Context, filter repository.InvoiceFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = 10000
	invoices, _, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"invoice_number", "recipient", "status", "total_amount", "issued_date", "due_date", "paid_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		row := []string{
			inv.InvoiceNumber,
			inv.RecipientName,
			inv.Status,
			strconv.FormatInt(inv.TotalAmount, 10),
			inv.IssuedDate.Format("2006-01-02"),
			formatOptionalDate(inv.DueDate),
			formatOptionalDate(inv.PaidAt),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
