package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"kol_dash_v1_202608/pkg/utils"
)

// ==================== 配置 ====================

// TikWMConfig 内容抓取上游配置
type TikWMConfig struct {
	BaseURL string // 默认 https://www.tikwm.com
	Timeout time.Duration
}

// ==================== 统一数据结构 ====================

// NormalizedAuthor 统一后的作者信息
type NormalizedAuthor struct {
	ID       string `json:"id,omitempty"`
	Nickname string `json:"nickname"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// NormalizedStats 统一后的互动统计，缺失字段一律为 0，不出现 null
type NormalizedStats struct {
	Likes    int64 `json:"likes"`
	Plays    int64 `json:"plays"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// NormalizedPost 统一后的帖子（跨上游通用）
type NormalizedPost struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Cover       string           `json:"cover"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Stats       NormalizedStats  `json:"stats"`
	Author      NormalizedAuthor `json:"author"`
	VideoURL    string           `json:"videoUrl"`
}

// NormalizedProfile 统一后的用户主页信息
type NormalizedProfile struct {
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Signature string `json:"signature"`
	Verified  bool   `json:"verified"`
	Region    string `json:"region"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	Hearts    int64  `json:"hearts"`
	Videos    int64  `json:"videos"`
}

// SearchResult 关键词搜索结果，cursor 是上游给的续页令牌，原样透传
type SearchResult struct {
	Posts   []NormalizedPost `json:"posts"`
	Cursor  json.Number      `json:"cursor"`
	HasMore bool             `json:"hasMore"`
}

// ==================== 上游响应外壳 ====================

// tikwmEnvelope 上游统一外壳 {code, msg, data}
type tikwmEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type tikwmVideoList struct {
	Videos  []map[string]interface{} `json:"videos"`
	Cursor  json.Number              `json:"cursor"`
	HasMore bool                     `json:"hasMore"`
}

// ==================== 服务实现 ====================

// TikWMService 内容平台聚合器
// 上游多个接口的响应字段并不一致（同一含义在不同接口/不同账号状态下字段名不同），
// 所有出口统一走 normalizePost / normalizeProfile 的字段回退表
type TikWMService struct {
	Config *TikWMConfig
	client *resty.Client
}

// NewTikWMService 创建内容聚合服务
func NewTikWMService(cfg *TikWMConfig) *TikWMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.tikwm.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	return &TikWMService{
		Config: cfg,
		client: utils.NewAPIClient(cfg.BaseURL, cfg.Timeout),
	}
}

// ==================== 用户信息 ====================

// GetUserInfo 查询单个用户信息
// 属于可选增强数据：任何失败都返回 nil，不向上抛错
func (s *TikWMService) GetUserInfo(ctx context.Context, username string) map[string]interface{} {
	username = strings.TrimPrefix(username, "@")

	env, err := s.get(ctx, "/api/user/info", map[string]string{"unique_id": username}, "")
	if err != nil || env.Code != 0 {
		log.Printf("[TikWM] 用户信息查询失败 %s: %v", username, err)
		return nil
	}

	var data struct {
		User map[string]interface{} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.User == nil {
		return nil
	}
	return data.User
}

// ==================== 用户帖子 ====================

// GetUserPosts 直连用户帖子接口
// 已知部分账号状态（隐私设置、限流）下该接口会"成功但返回空"，由 GetUserFeed 兜底。
// cookie 非空时附带会话凭证，可访问更多受限账号
func (s *TikWMService) GetUserPosts(ctx context.Context, username, cookie string) []NormalizedPost {
	username = strings.TrimPrefix(username, "@")

	env, err := s.get(ctx, "/api/user/posts", map[string]string{
		"unique_id": username,
		"count":     "30",
	}, cookie)
	if err != nil || env.Code != 0 {
		log.Printf("[TikWM] 用户帖子查询失败 %s: %v", username, err)
		return []NormalizedPost{}
	}

	var data tikwmVideoList
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return []NormalizedPost{}
	}

	posts := make([]NormalizedPost, 0, len(data.Videos))
	for _, raw := range data.Videos {
		posts = append(posts, normalizePost(raw, username))
	}
	return posts
}

// GetUserFeed 获取用户帖子（混合策略）
// 先走直连帖子接口；结果为空时回退到关键词搜索接口并按作者过滤。
// 直连接口有结果时绝不触发回退。两边都失败返回空列表，不抛错
func (s *TikWMService) GetUserFeed(ctx context.Context, username, cookie string) []NormalizedPost {
	username = strings.TrimPrefix(username, "@")

	posts := s.GetUserPosts(ctx, username, cookie)
	if len(posts) > 0 {
		return posts
	}

	log.Printf("[TikWM] 直连接口为空，回退到搜索: %s", username)

	env, err := s.get(ctx, "/api/feed/search", map[string]string{"keywords": username}, cookie)
	if err != nil || env.Code != 0 {
		return []NormalizedPost{}
	}

	var data tikwmVideoList
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return []NormalizedPost{}
	}

	// 搜索结果里混着别人的视频，严格按作者过滤
	result := make([]NormalizedPost, 0, len(data.Videos))
	for _, raw := range data.Videos {
		post := normalizePost(raw, username)
		if strings.EqualFold(post.Author.Username, username) {
			result = append(result, post)
		}
	}
	return result
}

// ==================== 关键词搜索 ====================

// SearchPosts 关键词搜索（分页）
// cursor 为上游续页令牌，空表示第一页；失败返回空结果而非错误
func (s *TikWMService) SearchPosts(ctx context.Context, keyword, cursor, cookie string) *SearchResult {
	params := map[string]string{"keywords": keyword}
	if cursor != "" {
		params["cursor"] = cursor
	}

	env, err := s.get(ctx, "/api/feed/search", params, cookie)
	if err != nil || env.Code != 0 {
		log.Printf("[TikWM] 搜索失败 %q: %v", keyword, err)
		return &SearchResult{Posts: []NormalizedPost{}}
	}

	var data tikwmVideoList
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return &SearchResult{Posts: []NormalizedPost{}}
	}

	posts := make([]NormalizedPost, 0, len(data.Videos))
	for _, raw := range data.Videos {
		posts = append(posts, normalizePost(raw, ""))
	}

	return &SearchResult{
		Posts:   posts,
		Cursor:  data.Cursor,
		HasMore: data.HasMore,
	}
}

// ==================== 用户主页 ====================

// StalkUser 拉取用户主页（user + stats 两个嵌套对象摊平）
// cookie 非空时附带会话凭证，可访问更多数据；找不到用户返回错误
func (s *TikWMService) StalkUser(ctx context.Context, username, cookie string) (*NormalizedProfile, error) {
	username = strings.TrimPrefix(username, "@")

	env, err := s.get(ctx, "/api/user/info", map[string]string{"unique_id": username}, cookie)
	if err != nil {
		return nil, fmt.Errorf("用户主页查询失败: %w", err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("上游返回错误: %s", env.Msg)
	}

	var data struct {
		User  map[string]interface{} `json:"user"`
		Stats map[string]interface{} `json:"stats"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("响应解析失败: %w", err)
	}
	if data.User == nil {
		return nil, fmt.Errorf("用户不存在: %s", username)
	}

	return normalizeProfile(data.User, data.Stats), nil
}

// ==================== 视频元数据 ====================

// DownloadVideo 按视频 URL 拉取单条视频元数据
func (s *TikWMService) DownloadVideo(ctx context.Context, videoURL string) (map[string]interface{}, error) {
	env, err := s.get(ctx, "/api/", map[string]string{"url": videoURL}, "")
	if err != nil {
		return nil, fmt.Errorf("视频元数据查询失败: %w", err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("上游返回错误: %s", env.Msg)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("响应解析失败: %w", err)
	}
	return raw, nil
}

// ==================== 内部请求 ====================

func (s *TikWMService) get(ctx context.Context, path string, params map[string]string, cookie string) (*tikwmEnvelope, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParams(params)
	if cookie != "" {
		// 上游接受把完整会话 Cookie 串作为参数传递
		req.SetQueryParam("cookie", cookie)
	}

	var env tikwmEnvelope
	resp, err := req.SetResult(&env).Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("上游状态码 %d", resp.StatusCode())
	}
	return &env, nil
}
