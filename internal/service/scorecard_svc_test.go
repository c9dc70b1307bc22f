package service

import (
	"math"
	"testing"
)

func TestCalculateCPM(t *testing.T) {
	svc := NewScorecardService()

	if got := svc.CalculateCPM(5_000_000, 1_000_000); got != 5000 {
		t.Errorf("500万费用/100万播放 CPM 应为 5000，实际 %v", got)
	}
	if got := svc.CalculateCPM(1_000_000, 0); got != 0 {
		t.Errorf("播放量为 0 时 CPM 应为 0，实际 %v", got)
	}
	if got := svc.CalculateCPM(1_000_000, -5); got != 0 {
		t.Errorf("播放量为负时 CPM 应为 0，实际 %v", got)
	}
}

func TestMedian(t *testing.T) {
	svc := NewScorecardService()

	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"空切片", nil, 0},
		{"单元素", []float64{7}, 7},
		{"奇数个", []float64{9, 1, 5}, 5},
		{"偶数个取中间均值", []float64{4, 1, 3, 2}, 2.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.Median(tc.values); got != tc.want {
				t.Errorf("Median(%v) = %v, 期望 %v", tc.values, got, tc.want)
			}
		})
	}

	// Median 不应修改调用方切片
	input := []float64{3, 1, 2}
	svc.Median(input)
	if input[0] != 3 || input[1] != 1 || input[2] != 2 {
		t.Errorf("Median 不应原地排序输入: %v", input)
	}
}

func TestAverage(t *testing.T) {
	svc := NewScorecardService()

	if got := svc.Average(nil); got != 0 {
		t.Errorf("空切片平均值应为 0，实际 %v", got)
	}
	if got := svc.Average([]float64{1, 2, 3}); math.Abs(got-2) > 1e-9 {
		t.Errorf("平均值计算错误: %v", got)
	}
}

func TestGetVerdict_Boundaries(t *testing.T) {
	svc := NewScorecardService()

	cases := []struct {
		cpm  float64
		want string
	}{
		{0, "no_data"},
		{-100, "no_data"},
		{500, "excellent"},
		{1000, "excellent"}, // 边界归入更好档位
		{1000.01, "good"},
		{5000, "good"},
		{5001, "fair"},
		{15000, "fair"},
		{15001, "poor"},
		{25000, "poor"},
		{25001, "very_poor"},
	}

	for _, tc := range cases {
		if got := svc.GetVerdict(tc.cpm); got != tc.want {
			t.Errorf("GetVerdict(%v) = %s, 期望 %s", tc.cpm, got, tc.want)
		}
	}
}

func TestFormatIDR(t *testing.T) {
	svc := NewScorecardService()

	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{1500000, "Rp 1.500.000"},
		{1234567890, "Rp 1.234.567.890"},
		{-25000, "-Rp 25.000"},
	}

	for _, tc := range cases {
		if got := svc.FormatIDR(tc.amount); got != tc.want {
			t.Errorf("FormatIDR(%v) = %q, 期望 %q", tc.amount, got, tc.want)
		}
	}
}
