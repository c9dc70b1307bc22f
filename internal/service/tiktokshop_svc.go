package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"kol_dash_v1_202608/pkg/utils"
)

// ==================== 配置 ====================

// TikTokShopConfig TikTok Shop 开放平台配置
type TikTokShopConfig struct {
	AppKey      string
	AppSecret   string
	RedirectURI string

	AuthBaseURL    string // 授权页，默认 https://auth.tiktok-shops.com/oauth/authorize
	AuthAPIBaseURL string // 令牌接口，默认 https://auth.tiktok-shops.com/api/v2
	APIBaseURL     string // 业务接口，默认 https://open-api.tiktokglobalshop.com

	Timeout time.Duration
}

// 接口路径常量
const (
	tiktokTokenPath       = "/api/v2/token/get"
	tiktokRefreshPath     = "/api/v2/token/refresh"
	tiktokCreatorInfoPath = "/seller/202309/seller_info"
)

// ==================== 上游响应结构 ====================

// TikTokTokenData 换取/刷新 Token 接口的 data 字段
type TikTokTokenData struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpireIn  int64  `json:"access_token_expire_in"`
	RefreshToken         string `json:"refresh_token"`
	RefreshTokenExpireIn int64  `json:"refresh_token_expire_in"`
	OpenID               string `json:"open_id"`
	SellerName           string `json:"seller_name"`
	ShopID               string `json:"shop_id"`
	SellerBaseRegion     string `json:"seller_base_region"`
}

// TikTokTokenResponse 令牌接口响应
// code != 0 表示上游业务失败，不是传输错误，由调用方判断
type TikTokTokenResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    TikTokTokenData `json:"data"`
}

// TikTokProfileResponse 卖家/达人信息接口响应，data 原样透传给前端
type TikTokProfileResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ==================== 服务实现 ====================

// TikTokShopService TikTok Shop 授权与签名客户端
type TikTokShopService struct {
	Config *TikTokShopConfig
	client *resty.Client
}

// NewTikTokShopService 创建 TikTok Shop 客户端
func NewTikTokShopService(cfg *TikTokShopConfig) *TikTokShopService {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = "https://auth.tiktok-shops.com/oauth/authorize"
	}
	if cfg.AuthAPIBaseURL == "" {
		cfg.AuthAPIBaseURL = "https://auth.tiktok-shops.com/api/v2"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://open-api.tiktokglobalshop.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &TikTokShopService{
		Config: cfg,
		client: utils.NewAPIClient("", cfg.Timeout),
	}
}

// ==================== 签名 ====================

// Sign 计算 TikTok Shop 开放平台要求的 HMAC-SHA256 签名
// 算法（必须与上游严格一致）：
//  1. 剔除 sign / access_token 两个参数
//  2. 其余 key 按字节序排序
//  3. 依序拼接 key+value，无分隔符
//  4. path 非空时整体前置（部分接口要求，部分不要求，按接口区分）
//  5. 首尾包上 app_secret，再用 app_secret 作为密钥做 HMAC-SHA256
//
// 纯函数，相同输入必得相同输出
func (s *TikTokShopService) Sign(params map[string]string, path string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" || k == "access_token" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var input string
	for _, k := range keys {
		input += k + params[k]
	}
	if path != "" {
		input = path + input
	}
	input = s.Config.AppSecret + input + s.Config.AppSecret

	mac := hmac.New(sha256.New, []byte(s.Config.AppSecret))
	mac.Write([]byte(input))
	return hex.EncodeToString(mac.Sum(nil))
}

// ==================== 授权流程 ====================

// GetAuthURL 生成授权页 URL（纯拼接，不发请求）
// state 用于 CSRF 防护，回调时校验
func (s *TikTokShopService) GetAuthURL(state string) string {
	u, _ := url.Parse(s.Config.AuthBaseURL)
	q := u.Query()
	q.Set("app_key", s.Config.AppKey)
	q.Set("state", state)
	q.Set("redirect_uri", s.Config.RedirectURI)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetAccessToken 用授权码换取令牌对
// 网络错误返回 error；上游业务失败 (code != 0) 体现在响应体里，调用方必须检查
func (s *TikTokShopService) GetAccessToken(ctx context.Context, authCode string) (*TikTokTokenResponse, error) {
	params := map[string]string{
		"app_key":    s.Config.AppKey,
		"app_secret": s.Config.AppSecret,
		"auth_code":  authCode,
		"grant_type": "authorized_code",
		"timestamp":  strconv.FormatInt(time.Now().Unix(), 10),
	}
	params["sign"] = s.Sign(params, tiktokTokenPath)

	var tokenResp TikTokTokenResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&tokenResp).
		Get(s.Config.AuthAPIBaseURL + "/token/get")
	if err != nil {
		return nil, fmt.Errorf("请求令牌接口失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("令牌接口返回异常状态: %d", resp.StatusCode())
	}

	return &tokenResp, nil
}

// RefreshAccessToken 用 refresh token 刷新令牌对，签名规则同换取接口
func (s *TikTokShopService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TikTokTokenResponse, error) {
	params := map[string]string{
		"app_key":       s.Config.AppKey,
		"app_secret":    s.Config.AppSecret,
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
		"timestamp":     strconv.FormatInt(time.Now().Unix(), 10),
	}
	params["sign"] = s.Sign(params, tiktokRefreshPath)

	var tokenResp TikTokTokenResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&tokenResp).
		Get(s.Config.AuthAPIBaseURL + "/token/refresh")
	if err != nil {
		return nil, fmt.Errorf("刷新令牌失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("刷新令牌接口返回异常状态: %d", resp.StatusCode())
	}

	return &tokenResp, nil
}

// GetCreatorProfile 拉取已授权卖家/达人信息
// access_token 按签名规则排除在签名外，但仍作为参数发送
func (s *TikTokShopService) GetCreatorProfile(ctx context.Context, accessToken string) (*TikTokProfileResponse, error) {
	params := map[string]string{
		"app_key":      s.Config.AppKey,
		"timestamp":    strconv.FormatInt(time.Now().Unix(), 10),
		"access_token": accessToken,
	}
	params["sign"] = s.Sign(params, tiktokCreatorInfoPath)

	var profileResp TikTokProfileResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&profileResp).
		Get(s.Config.APIBaseURL + tiktokCreatorInfoPath)
	if err != nil {
		return nil, fmt.Errorf("请求卖家信息失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("卖家信息接口返回异常状态: %d", resp.StatusCode())
	}

	return &profileResp, nil
}
