package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
)

func newSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.SysUser{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func seedSessionUser(t *testing.T, db *gorm.DB, cookie string) int64 {
	t.Helper()
	user := &model.SysUser{
		Username:            "tester",
		Password:            "x",
		TikTokSessionCookie: cookie,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("写入测试用户失败: %v", err)
	}
	return user.ID
}

func TestResolve_UserCookieWins(t *testing.T) {
	db := newSessionTestDB(t)
	userID := seedSessionUser(t, db, "sessionid=user_own")
	t.Setenv("TIKTOK_SESSION_COOKIE", "sessionid=from_env")

	svc := NewSessionService(repository.NewUserRepository(db))
	if got := svc.Resolve(context.Background(), userID); got != "sessionid=user_own" {
		t.Errorf("用户自己保存的 Cookie 应优先于环境变量，实际: %q", got)
	}
}

func TestResolve_FallsBackToEnv(t *testing.T) {
	db := newSessionTestDB(t)
	userID := seedSessionUser(t, db, "") // 用户未保存 Cookie
	t.Setenv("TIKTOK_SESSION_COOKIE", "sessionid=from_env")

	svc := NewSessionService(repository.NewUserRepository(db))

	if got := svc.Resolve(context.Background(), userID); got != "sessionid=from_env" {
		t.Errorf("用户无 Cookie 时应回退到环境变量，实际: %q", got)
	}
	// 未登录请求同样走环境变量
	if got := svc.Resolve(context.Background(), 0); got != "sessionid=from_env" {
		t.Errorf("userID=0 应直接走环境变量，实际: %q", got)
	}
}

func TestResolve_EmptyWhenNothingConfigured(t *testing.T) {
	db := newSessionTestDB(t)
	t.Setenv("TIKTOK_SESSION_COOKIE", "")

	svc := NewSessionService(repository.NewUserRepository(db))

	// 用户不存在也不报错，静默降级为空串
	if got := svc.Resolve(context.Background(), 9999); got != "" {
		t.Errorf("无任何凭证时应返回空串，实际: %q", got)
	}
}

func TestSave_AndClear(t *testing.T) {
	db := newSessionTestDB(t)
	userID := seedSessionUser(t, db, "")
	t.Setenv("TIKTOK_SESSION_COOKIE", "")

	svc := NewSessionService(repository.NewUserRepository(db))
	ctx := context.Background()

	if svc.HasUserCookie(ctx, userID) {
		t.Error("初始状态不应有用户 Cookie")
	}

	if err := svc.Save(ctx, userID, "sessionid=saved"); err != nil {
		t.Fatalf("保存 Cookie 失败: %v", err)
	}
	if !svc.HasUserCookie(ctx, userID) {
		t.Error("保存后 HasUserCookie 应为 true")
	}
	if got := svc.Resolve(ctx, userID); got != "sessionid=saved" {
		t.Errorf("保存后应解析到新 Cookie，实际: %q", got)
	}

	// 空串表示清除
	if err := svc.Save(ctx, userID, ""); err != nil {
		t.Fatalf("清除 Cookie 失败: %v", err)
	}
	if svc.HasUserCookie(ctx, userID) {
		t.Error("清除后 HasUserCookie 应为 false")
	}
}
