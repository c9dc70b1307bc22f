package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestShopService(secret string) *TikTokShopService {
	return NewTikTokShopService(&TikTokShopConfig{
		AppKey:      "test_app_key",
		AppSecret:   secret,
		RedirectURI: "http://localhost:8080/api/tiktok/callback",
	})
}

// ==================== 签名算法 ====================

func TestSign_Deterministic(t *testing.T) {
	svc := newTestShopService("secret123")
	params := map[string]string{
		"app_key":   "test_app_key",
		"timestamp": "1700000000",
	}

	first := svc.Sign(params, "/api/v2/token/get")
	second := svc.Sign(params, "/api/v2/token/get")
	if first != second {
		t.Fatalf("同样输入两次签名不一致: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("签名应为 64 位十六进制，实际: %d", len(first))
	}
}

func TestSign_OrderIndependent(t *testing.T) {
	svc := newTestShopService("secret123")

	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}

	if svc.Sign(a, "") != svc.Sign(b, "") {
		t.Fatal("参数插入顺序不同导致签名不一致")
	}
}

func TestSign_LexicographicConcat(t *testing.T) {
	secret := "sec"
	svc := newTestShopService(secret)

	// 按算法手算期望值：排序后拼接 a1b2，首尾包 secret
	input := secret + "a1b2" + secret
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(input))
	expected := hex.EncodeToString(mac.Sum(nil))

	got := svc.Sign(map[string]string{"b": "2", "a": "1"}, "")
	if got != expected {
		t.Fatalf("签名与手算结果不一致: got=%s want=%s", got, expected)
	}
}

func TestSign_ExcludesSignAndAccessToken(t *testing.T) {
	svc := newTestShopService("secret123")

	base := map[string]string{"a": "1"}
	withExcluded := map[string]string{
		"a":            "1",
		"sign":         "old_signature",
		"access_token": "some_token",
	}

	if svc.Sign(base, "") != svc.Sign(withExcluded, "") {
		t.Fatal("sign / access_token 应被排除在签名之外")
	}
}

func TestSign_PathChangesSignature(t *testing.T) {
	svc := newTestShopService("secret123")
	params := map[string]string{"a": "1"}

	if svc.Sign(params, "/path/one") == svc.Sign(params, "/path/two") {
		t.Fatal("不同 path 签名应不同")
	}
	if svc.Sign(params, "") == svc.Sign(params, "/path/one") {
		t.Fatal("path 为空与非空签名应不同")
	}
}

// ==================== 授权 URL ====================

func TestGetAuthURL(t *testing.T) {
	svc := newTestShopService("secret123")
	url := svc.GetAuthURL("state_abc")

	for _, want := range []string{"app_key=test_app_key", "state=state_abc", "redirect_uri="} {
		if !strings.Contains(url, want) {
			t.Errorf("授权 URL 缺少参数 %s: %s", want, url)
		}
	}
}

// ==================== 令牌换取 ====================

func TestGetAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/get" {
			t.Errorf("意外的请求路径: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("auth_code") != "code_123" {
			t.Errorf("auth_code 未传递: %s", q.Get("auth_code"))
		}
		if q.Get("grant_type") != "authorized_code" {
			t.Errorf("grant_type 错误: %s", q.Get("grant_type"))
		}
		if q.Get("sign") == "" {
			t.Error("请求缺少签名")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TikTokTokenResponse{
			Code: 0,
			Data: TikTokTokenData{
				AccessToken:  "at_xyz",
				RefreshToken: "rt_xyz",
				ShopID:       "shop_001",
				SellerName:   "Test Seller",
			},
		})
	}))
	defer server.Close()

	svc := newTestShopService("secret123")
	svc.Config.AuthAPIBaseURL = server.URL

	resp, err := svc.GetAccessToken(context.Background(), "code_123")
	if err != nil {
		t.Fatalf("换取令牌失败: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("上游返回错误码: %d", resp.Code)
	}
	if resp.Data.AccessToken != "at_xyz" || resp.Data.ShopID != "shop_001" {
		t.Fatalf("令牌数据解析错误: %+v", resp.Data)
	}
}

func TestGetAccessToken_UpstreamBusinessError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TikTokTokenResponse{
			Code:    36004004,
			Message: "auth_code expired",
		})
	}))
	defer server.Close()

	svc := newTestShopService("secret123")
	svc.Config.AuthAPIBaseURL = server.URL

	// 业务失败不是传输错误，err 应为 nil，由调用方检查 Code
	resp, err := svc.GetAccessToken(context.Background(), "expired_code")
	if err != nil {
		t.Fatalf("业务失败不应返回传输错误: %v", err)
	}
	if resp.Code == 0 {
		t.Fatal("应返回上游业务错误码")
	}
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type 错误: %s", q.Get("grant_type"))
		}
		if q.Get("refresh_token") != "rt_old" {
			t.Errorf("refresh_token 未传递")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TikTokTokenResponse{
			Code: 0,
			Data: TikTokTokenData{AccessToken: "at_new", RefreshToken: "rt_new"},
		})
	}))
	defer server.Close()

	svc := newTestShopService("secret123")
	svc.Config.AuthAPIBaseURL = server.URL

	resp, err := svc.RefreshAccessToken(context.Background(), "rt_old")
	if err != nil {
		t.Fatalf("刷新令牌失败: %v", err)
	}
	if resp.Data.AccessToken != "at_new" {
		t.Fatalf("新令牌解析错误: %+v", resp.Data)
	}
}
