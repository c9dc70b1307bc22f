package service

import (
	"context"
	"os"

	"kol_dash_v1_202608/internal/repository"
)

// ==================== 会话凭证解析 ====================

// SessionService 第三方平台会话凭证解析
// 解析顺序：当前用户保存的 Cookie → 进程级环境变量 → 空串。
// 任何一步失败都静默降级，绝不返回错误，功能在无凭证时照常（降级）运行
type SessionService struct {
	userRepo repository.UserRepository
	envKey   string
}

// NewSessionService 创建会话凭证服务
func NewSessionService(userRepo repository.UserRepository) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		envKey:   "TIKTOK_SESSION_COOKIE",
	}
}

// Resolve 解析指定用户可用的会话 Cookie
// userID <= 0 表示未登录请求，直接走环境变量兜底
func (s *SessionService) Resolve(ctx context.Context, userID int64) string {
	if userID > 0 && s.userRepo != nil {
		cookie, err := s.userRepo.GetSessionCookie(ctx, userID)
		if err == nil && cookie != "" {
			return cookie
		}
	}
	return os.Getenv(s.envKey)
}

// Save 保存用户级 Cookie，空串表示清除
func (s *SessionService) Save(ctx context.Context, userID int64, cookie string) error {
	return s.userRepo.UpdateSessionCookie(ctx, userID, cookie)
}

// HasUserCookie 当前用户是否保存过自己的 Cookie（不含环境变量兜底）
func (s *SessionService) HasUserCookie(ctx context.Context, userID int64) bool {
	if userID <= 0 {
		return false
	}
	cookie, err := s.userRepo.GetSessionCookie(ctx, userID)
	return err == nil && cookie != ""
}
