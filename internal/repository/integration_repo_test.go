package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kol_dash_v1_202608/internal/model"
)

func newIntegrationTestRepo(t *testing.T) IntegrationRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Integration{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return NewIntegrationRepository(db)
}

func TestUpsert_SameKeyOverwrites(t *testing.T) {
	repo := newIntegrationTestRepo(t)
	ctx := context.Background()

	first := &model.Integration{
		Platform:    model.PlatformTikTokShop,
		ShopID:      "shop_001",
		AccessToken: "at_old",
		SellerName:  "Old Seller",
		TokenStatus: model.TokenStatusValid,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}

	// 同一 (platform, shop_id) 再次授权：覆盖而不是新增
	second := &model.Integration{
		Platform:    model.PlatformTikTokShop,
		ShopID:      "shop_001",
		AccessToken: "at_new",
		SellerName:  "New Seller",
		TokenStatus: model.TokenStatusValid,
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("重复授权写入失败: %v", err)
	}

	record, err := repo.GetByPlatform(ctx, model.PlatformTikTokShop)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if record.AccessToken != "at_new" || record.SellerName != "New Seller" {
		t.Errorf("令牌应被覆盖，实际: token=%s seller=%s", record.AccessToken, record.SellerName)
	}
}

func TestGetByPlatform_NotFound(t *testing.T) {
	repo := newIntegrationTestRepo(t)

	_, err := repo.GetByPlatform(context.Background(), model.PlatformTikTokShop)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("无记录应返回 ErrRecordNotFound，实际: %v", err)
	}
}

func TestDeleteByPlatform_IdempotentOnEmpty(t *testing.T) {
	repo := newIntegrationTestRepo(t)
	ctx := context.Background()

	// 空表删除不报错（幂等断开）
	if err := repo.DeleteByPlatform(ctx, model.PlatformTikTokShop); err != nil {
		t.Fatalf("空表删除应成功: %v", err)
	}

	if err := repo.Upsert(ctx, &model.Integration{
		Platform:    model.PlatformTikTokShop,
		ShopID:      "shop_001",
		TokenStatus: model.TokenStatusValid,
	}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	if err := repo.DeleteByPlatform(ctx, model.PlatformTikTokShop); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := repo.GetByPlatform(ctx, model.PlatformTikTokShop); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("删除后不应再查到记录")
	}
	// 再删一次仍然成功
	if err := repo.DeleteByPlatform(ctx, model.PlatformTikTokShop); err != nil {
		t.Fatalf("重复删除应成功: %v", err)
	}
}

func TestFindExpiring(t *testing.T) {
	repo := newIntegrationTestRepo(t)
	ctx := context.Background()

	now := time.Now().Unix()
	seeds := []model.Integration{
		// 一小时内过期，应被查出
		{Platform: model.PlatformTikTokShop, ShopID: "expiring", TokenStatus: model.TokenStatusValid, AccessTokenExpireIn: now + 600},
		// 过期时间很远，不应被查出
		{Platform: model.PlatformTikTokShop, ShopID: "fresh", TokenStatus: model.TokenStatusValid, AccessTokenExpireIn: now + 86400},
		// 已标记 expired 的记录不参与自动刷新
		{Platform: model.PlatformTikTokShop, ShopID: "dead", TokenStatus: model.TokenStatusExpired, AccessTokenExpireIn: now + 600},
		// 过期时间缺失（0）的脏数据跳过
		{Platform: model.PlatformTikTokShop, ShopID: "no_expiry", TokenStatus: model.TokenStatusValid, AccessTokenExpireIn: 0},
	}
	for i := range seeds {
		if err := repo.Upsert(ctx, &seeds[i]); err != nil {
			t.Fatalf("写入失败: %v", err)
		}
	}

	records, err := repo.FindExpiring(ctx, now+3600)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(records) != 1 || records[0].ShopID != "expiring" {
		t.Errorf("应只查出即将过期的 valid 记录，实际: %+v", records)
	}
}

func TestUpdateToken_ResetsStatusToValid(t *testing.T) {
	repo := newIntegrationTestRepo(t)
	ctx := context.Background()

	record := &model.Integration{
		Platform:    model.PlatformTikTokShop,
		ShopID:      "shop_001",
		AccessToken: "at_old",
		TokenStatus: model.TokenStatusExpired,
	}
	if err := repo.Upsert(ctx, record); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	expire := time.Now().Add(2 * time.Hour).Unix()
	if err := repo.UpdateToken(ctx, record.ID, "at_new", "rt_new", expire, expire+86400); err != nil {
		t.Fatalf("更新令牌失败: %v", err)
	}

	saved, _ := repo.GetByPlatform(ctx, model.PlatformTikTokShop)
	if saved.AccessToken != "at_new" || saved.RefreshToken != "rt_new" {
		t.Errorf("令牌未更新: %+v", saved)
	}
	if saved.TokenStatus != model.TokenStatusValid {
		t.Errorf("刷新成功后状态应回到 valid，实际 %s", saved.TokenStatus)
	}
}
