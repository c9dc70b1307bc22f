package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"kol_dash_v1_202608/pkg/utils"
)

// ErrScraperUnavailable 抓取服务不可达（连接拒绝、超时等），上层映射为 503
var ErrScraperUnavailable = errors.New("instagram 抓取服务不可用")

// ==================== 配置 ====================

// InstagramConfig Instagram 抓取边车服务配置
// 抓取逻辑跑在独立进程里，这里只做 HTTP 代理转发
type InstagramConfig struct {
	BaseURL string // 默认 http://localhost:3001
	Timeout time.Duration
}

// ==================== 服务实现 ====================

// InstagramService Instagram 数据代理
type InstagramService struct {
	Config *InstagramConfig
	client *resty.Client
}

// NewInstagramService 创建 Instagram 代理服务
func NewInstagramService(cfg *InstagramConfig) *InstagramService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3001"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &InstagramService{
		Config: cfg,
		client: utils.NewAPIClient(cfg.BaseURL, cfg.Timeout),
	}
}

// GetProfile 拉取 Instagram 用户主页数据
func (s *InstagramService) GetProfile(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimPrefix(username, "@")
	return s.proxy(ctx, "/api/profile", map[string]string{"username": username})
}

// GetPosts 拉取 Instagram 用户帖子列表
func (s *InstagramService) GetPosts(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimPrefix(username, "@")
	return s.proxy(ctx, "/api/posts", map[string]string{"username": username})
}

func (s *InstagramService) proxy(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		// 网络层错误统一归为服务不可用
		return nil, fmt.Errorf("%w: %v", ErrScraperUnavailable, err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("%w: 状态码 %d", ErrScraperUnavailable, resp.StatusCode())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("抓取服务返回错误: %s", resp.String())
	}
	return resp.Body(), nil
}
