package service

import (
	"strings"
	"testing"
	"time"

	"kol_dash_v1_202608/internal/model"
)

const testTemplate = `SURAT PERJANJIAN KERJASAMA

Pihak Pertama: {BRAND_NAME}
Pihak Kedua: {KOL_NAME} (NIK: {KOL_NIK})
Alamat: {KOL_ADDRESS}

Ruang Lingkup Kerja: {SOW}
Nilai Kontrak: {FEE_AMOUNT}
Ketentuan Pembayaran: {PAYMENT_TERMS}
Periode: {START_DATE} s/d {END_DATE}

Ditandatangani pada: {TODAY_DATE}`

func TestHydrateContract_AllFieldsFilled(t *testing.T) {
	svc := NewContractService(nil, nil)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	body := svc.HydrateContract(&model.Contract{
		Template:     testTemplate,
		KOLName:      "Rina Wijaya",
		KOLNik:       "3173052208990001",
		KOLAddress:   "Jl. Sudirman No. 1, Jakarta",
		BrandName:    "Kopi Nusantara",
		FeeAmount:    2500000,
		SOW:          "1x TikTok video + 2x story",
		PaymentTerms: "50% DP, 50% setelah posting",
		StartDate:    &start,
		EndDate:      &end,
	})

	checks := map[string]string{
		"KOL 姓名":  "Rina Wijaya",
		"NIK":     "3173052208990001",
		"品牌名":     "Kopi Nusantara",
		"费用（点分位）": "Rp 2.500.000",
		"起始日期":    "1 March 2026",
		"结束日期":    "31 March 2026",
		"工作范围":    "1x TikTok video + 2x story",
	}
	for name, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("正文缺少%s %q:\n%s", name, want, body)
		}
	}

	if strings.Contains(body, "{") || strings.Contains(body, "}") {
		t.Errorf("正文残留未替换的占位符:\n%s", body)
	}
	// 签署日期应为今天
	if !strings.Contains(body, time.Now().Format("2 January 2006")) {
		t.Error("正文应包含今日日期")
	}
}

func TestHydrateContract_MissingFieldsBecomeBlanks(t *testing.T) {
	svc := NewContractService(nil, nil)

	body := svc.HydrateContract(&model.Contract{Template: testTemplate})

	// 缺失字段填下划线占位而不是留空；TODAY_DATE 永远填当天，不算缺失
	if n := strings.Count(body, "____________________"); n != 9 {
		t.Errorf("期望 9 个下划线占位（姓名/NIK/地址/品牌/费用/SOW/付款/起止日期），实际 %d:\n%s", n, body)
	}
	if strings.Contains(body, "{KOL_NAME}") {
		t.Error("占位符应被替换为下划线")
	}
}

func TestHydrateContract_ZeroFeeBecomesBlank(t *testing.T) {
	svc := NewContractService(nil, nil)

	body := svc.HydrateContract(&model.Contract{
		Template:  "Fee: {FEE_AMOUNT}",
		FeeAmount: 0,
	})
	if body != "Fee: ____________________" {
		t.Errorf("费用为 0 应填下划线，实际: %q", body)
	}
}

func TestHydrateContract_WhitespaceOnlyIsBlank(t *testing.T) {
	svc := NewContractService(nil, nil)

	body := svc.HydrateContract(&model.Contract{
		Template: "Name: {KOL_NAME}",
		KOLName:  "   ",
	})
	if body != "Name: ____________________" {
		t.Errorf("纯空白字段应视为缺失，实际: %q", body)
	}
}
