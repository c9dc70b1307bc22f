package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

func newInvoiceTestService(t *testing.T) *InvoiceService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Invoice{}, &model.InvoiceItem{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return NewInvoiceService(repository.NewInvoiceRepository(db))
}

func TestGenerateInvoiceNumber_Format(t *testing.T) {
	svc := newInvoiceTestService(t)

	number, err := svc.GenerateInvoiceNumber(context.Background())
	if err != nil {
		t.Fatalf("编号生成失败: %v", err)
	}

	// INV-{YYYY}{MM}-{100..999}
	pattern := regexp.MustCompile(`^INV-\d{6}-\d{3}$`)
	if !pattern.MatchString(number) {
		t.Fatalf("编号格式错误: %s", number)
	}

	now := time.Now()
	wantPrefix := "INV-" + now.Format("200601") + "-"
	if !strings.HasPrefix(number, wantPrefix) {
		t.Errorf("编号前缀应为当年当月 %s，实际: %s", wantPrefix, number)
	}
}

func TestRecalculateTotals(t *testing.T) {
	svc := newInvoiceTestService(t)

	invoice := &model.Invoice{
		TotalAmount: 999999, // 传入的总额应被覆盖
		Items: []model.InvoiceItem{
			{Description: "TikTok video", Quantity: 2, Price: 1500000, Total: 1},
			{Description: "Story", Quantity: 0, Price: 500000}, // 数量非法按 1 处理
		},
	}
	svc.RecalculateTotals(invoice)

	if invoice.Items[0].Total != 3000000 {
		t.Errorf("第一行小计应为 2*1500000，实际 %d", invoice.Items[0].Total)
	}
	if invoice.Items[1].Quantity != 1 || invoice.Items[1].Total != 500000 {
		t.Errorf("非法数量应归一为 1，实际 qty=%d total=%d",
			invoice.Items[1].Quantity, invoice.Items[1].Total)
	}
	if invoice.TotalAmount != 3500000 {
		t.Errorf("总额应为明细之和 3500000，实际 %d", invoice.TotalAmount)
	}
}

func TestInvoiceCreate_Defaults(t *testing.T) {
	svc := newInvoiceTestService(t)
	ctx := context.Background()

	invoice := &model.Invoice{
		RecipientName: "Rina Wijaya",
		Items: []model.InvoiceItem{
			{Description: "Video", Quantity: 1, Price: 2000000},
		},
	}
	if err := svc.Create(ctx, invoice); err != nil {
		t.Fatalf("创建发票失败: %v", err)
	}

	if invoice.InvoiceNumber == "" {
		t.Error("创建时应自动生成编号")
	}
	if invoice.Status != model.InvoiceStatusDraft {
		t.Errorf("默认状态应为 DRAFT，实际 %s", invoice.Status)
	}
	if invoice.IssuedDate.IsZero() {
		t.Error("创建时应自动填充开票日期")
	}
	if invoice.TotalAmount != 2000000 {
		t.Errorf("总额计算错误: %d", invoice.TotalAmount)
	}
}

func TestInvoiceUpdate_ReplacesItems(t *testing.T) {
	svc := newInvoiceTestService(t)
	ctx := context.Background()

	invoice := &model.Invoice{
		RecipientName: "Budi",
		Items: []model.InvoiceItem{
			{Description: "Old item", Quantity: 1, Price: 100000},
		},
	}
	if err := svc.Create(ctx, invoice); err != nil {
		t.Fatalf("创建发票失败: %v", err)
	}

	// 整体替换明细：旧行删除，新行写入
	invoice.Items = []model.InvoiceItem{
		{Description: "New item A", Quantity: 1, Price: 300000},
		{Description: "New item B", Quantity: 2, Price: 100000},
	}
	if err := svc.Update(ctx, invoice); err != nil {
		t.Fatalf("更新发票失败: %v", err)
	}

	saved, err := svc.GetByID(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("查询发票失败: %v", err)
	}
	if len(saved.Items) != 2 {
		t.Fatalf("明细应被整体替换为 2 行，实际 %d", len(saved.Items))
	}
	if saved.TotalAmount != 500000 {
		t.Errorf("替换后总额应重算为 500000，实际 %d", saved.TotalAmount)
	}
	for _, item := range saved.Items {
		if item.Description == "Old item" {
			t.Error("旧明细行未被删除")
		}
	}
}

func TestMarkPaid(t *testing.T) {
	svc := newInvoiceTestService(t)
	ctx := context.Background()

	invoice := &model.Invoice{RecipientName: "Sari"}
	if err := svc.Create(ctx, invoice); err != nil {
		t.Fatalf("创建发票失败: %v", err)
	}

	if err := svc.MarkPaid(ctx, invoice.ID); err != nil {
		t.Fatalf("标记支付失败: %v", err)
	}

	saved, _ := svc.GetByID(ctx, invoice.ID)
	if saved.Status != model.InvoiceStatusPaid {
		t.Errorf("状态应为 PAID，实际 %s", saved.Status)
	}
	if saved.PaidAt == nil {
		t.Error("支付时间应被记录")
	}
}

func TestExportCSV(t *testing.T) {
	svc := newInvoiceTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Rina", "Budi"} {
		invoice := &model.Invoice{
			RecipientName: name,
			Items:         []model.InvoiceItem{{Quantity: 1, Price: 1000000}},
		}
		if err := svc.Create(ctx, invoice); err != nil {
			t.Fatalf("创建发票失败: %v", err)
		}
	}

	data, err := svc.ExportCSV(ctx, repository.InvoiceFilter{})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("应有 1 行表头 + 2 行数据，实际 %d 行", len(lines))
	}
	if !strings.HasPrefix(lines[0], "invoice_number,") {
		t.Errorf("表头错误: %s", lines[0])
	}
	if !strings.Contains(string(data), "1000000") {
		t.Error("导出内容缺少金额列")
	}
}
