package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTikTokTestRouter 组装一个带内存数据库的最小路由
func newTikTokTestRouter(t *testing.T, tikwmBaseURL string) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Integration{}, &model.SysUser{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	integrationRepo := repository.NewIntegrationRepository(db)
	shopClient := service.NewTikTokShopService(&service.TikTokShopConfig{
		AppKey:    "test_key",
		AppSecret: "test_secret",
	})
	tikwmSvc := service.NewTikWMService(&service.TikWMConfig{BaseURL: tikwmBaseURL})
	sessionSvc := service.NewSessionService(repository.NewUserRepository(db))

	ctl := NewTikTokController(
		service.NewIntegrationService(integrationRepo, shopClient),
		tikwmSvc,
		sessionSvc,
	)

	r := gin.New()
	r.GET("/api/tiktok/status", ctl.GetStatus)
	r.DELETE("/api/tiktok/connection", ctl.Disconnect)
	r.GET("/api/tiktok/creator/profile", ctl.GetCreatorProfile)
	r.POST("/api/tiktok/posts", ctl.GetPosts)
	r.POST("/api/tiktok/search", ctl.Search)
	r.GET("/api/tiktok/download", ctl.Download)
	r.POST("/api/tiktok/download", ctl.Download)
	r.GET("/api/tiktok/trending", ctl.Trending)
	return r
}

func TestSearch_EnvelopeShape(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": map[string]interface{}{
				"videos": []map[string]interface{}{
					{
						"video_id":   "v1",
						"title":      "kopi enak",
						"play_count": 1000,
						"author":     map[string]interface{}{"unique_id": "alice"},
					},
				},
				"cursor":  30,
				"hasMore": true,
			},
		})
	}))
	defer upstream.Close()

	r := newTikTokTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/search",
		strings.NewReader(`{"keyword":"kopi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}

	// data 直接是帖子数组，cursor / hasMore 是顶层字段
	var resp struct {
		Status  string            `json:"status"`
		Data    []json.RawMessage `json:"data"`
		Cursor  json.Number       `json:"cursor"`
		HasMore bool              `json:"hasMore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status 应为 success，实际 %s", resp.Status)
	}
	if len(resp.Data) != 1 {
		t.Errorf("data 应为含 1 条帖子的数组，实际 %d", len(resp.Data))
	}
	if resp.Cursor.String() != "30" || !resp.HasMore {
		t.Errorf("分页字段应在顶层: cursor=%s hasMore=%v", resp.Cursor, resp.HasMore)
	}
}

func TestGetPosts_AuthorAlongsideList(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": map[string]interface{}{
				"videos": []map[string]interface{}{
					{
						"video_id": "v1",
						"title":    "kopi pagi",
						"author":   map[string]interface{}{"unique_id": "alice", "nickname": "Alice"},
					},
				},
			},
		})
	}))
	defer upstream.Close()

	r := newTikTokTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/posts",
		strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Posts  []json.RawMessage `json:"posts"`
			Author struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data.Posts) != 1 {
		t.Errorf("posts 应有 1 条，实际 %d", len(resp.Data.Posts))
	}
	if resp.Data.Author.Username != "alice" {
		t.Errorf("响应应附带从第一条帖子提取的作者: %s", w.Body.String())
	}
}

func TestGetPosts_NotFoundWhenAllSourcesEmpty(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 直连和回退搜索都返回空
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": map[string]interface{}{"videos": []map[string]interface{}{}},
		})
	}))
	defer upstream.Close()

	r := newTikTokTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/posts",
		strings.NewReader(`{"username":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("全部来源为空应返回 404，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "No posts found or user is private." {
		t.Errorf("404 应携带机器可读的提示，实际: %q", resp.Error)
	}
}

func TestSearch_MissingKeyword(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少关键词应返回 400，实际 %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "error" || resp.Error == "" {
		t.Errorf("错误响应应带 status=error 和 error 说明: %s", w.Body.String())
	}
}

func TestDisconnect_IdempotentWhenNotConnected(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/tiktok/connection", nil)
	r.ServeHTTP(w, req)

	// 无授权记录时断开也返回成功
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Success bool `json:"success"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "success" || !resp.Data.Success {
		t.Errorf("幂等断开响应错误: %s", w.Body.String())
	}
}

func TestGetStatus_NotConnected(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tiktok/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("无授权记录查状态也应 200，实际 %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Connected bool `json:"connected"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "success" || resp.Data.Connected {
		t.Errorf("未连接时 connected 应为 false: %s", w.Body.String())
	}
}

func TestGetCreatorProfile_NotConnected(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tiktok/creator/profile", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("无授权记录应返回 404，实际 %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "No connected TikTok Shop account found." {
		t.Errorf("错误消息不符: %q", resp.Error)
	}
}

func TestDownload_RejectsNonTikTokURL(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/download",
		strings.NewReader(`{"url":"https://example.com/video/1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("非 tiktok.com 链接应返回 400，实际 %d", w.Code)
	}
}

func TestDownload_GetQueryForm(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": map[string]interface{}{"id": "v1", "play": "https://cdn.example/v1.mp4"},
		})
	}))
	defer upstream.Close()

	r := newTikTokTestRouter(t, upstream.URL)

	// GET 形式通过 url 查询参数传视频链接
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/tiktok/download?url=https://www.tiktok.com/@alice/video/1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET 查询参数形式应被接受，实际 %d: %s", w.Code, w.Body.String())
	}

	// 缺少 url 参数返回 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tiktok/download", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少 url 参数应返回 400，实际 %d", w.Code)
	}
}

func TestTrending_ExplicitNotImplemented(t *testing.T) {
	r := newTikTokTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tiktok/trending", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Implemented bool `json:"implemented"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "success" || resp.Data.Implemented {
		t.Errorf("热门接口应返回 implemented=false 的成功响应: %s", w.Body.String())
	}
}
