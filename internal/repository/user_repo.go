package repository

import (
	"context"

	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *model.SysUser) error
	GetByID(ctx context.Context, id int64) (*model.SysUser, error)
	GetByUsername(ctx context.Context, username string) (*model.SysUser, error)

	// GetSessionCookie 读取用户保存的 TikTok 会话 Cookie
	GetSessionCookie(ctx context.Context, userID int64) (string, error)

	// UpdateSessionCookie 保存会话 Cookie，空字符串表示清除
	UpdateSessionCookie(ctx context.Context, userID int64, cookie string) error
}

// ==================== 仓储实现 ====================

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.SysUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.SysUser, error) {
	var user model.SysUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.SysUser, error) {
	var user model.SysUser
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetSessionCookie(ctx context.Context, userID int64) (string, error) {
	var user model.SysUser
	if err := r.db.WithContext(ctx).
		Select("tik_tok_session_cookie").
		First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.TikTokSessionCookie, nil
}

func (r *userRepo) UpdateSessionCookie(ctx context.Context, userID int64, cookie string) error {
	return r.db.WithContext(ctx).Model(&model.SysUser{}).
		Where("id = ?", userID).
		Update("tik_tok_session_cookie", cookie).Error
}
