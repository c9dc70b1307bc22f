package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestTikWM(baseURL string) *TikWMService {
	return NewTikWMService(&TikWMConfig{BaseURL: baseURL})
}

func writeTikWM(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	raw, _ := json.Marshal(data)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 0,
		"msg":  "success",
		"data": json.RawMessage(raw),
	})
}

func rawPost(id, author string, plays int64) map[string]interface{} {
	return map[string]interface{}{
		"video_id":   id,
		"title":      "title " + id,
		"cover":      "https://cdn.example/" + id + ".jpg",
		"play":       "https://cdn.example/" + id + ".mp4",
		"play_count": float64(plays),
		"digg_count": float64(10),
		"author": map[string]interface{}{
			"unique_id": author,
			"nickname":  "Nick " + author,
		},
	}
}

// ==================== 回退策略 ====================

func TestGetUserFeed_NoFallbackWhenPrimaryHasResults(t *testing.T) {
	var searchCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/posts":
			writeTikWM(w, map[string]interface{}{
				"videos": []map[string]interface{}{rawPost("v1", "alice", 100)},
			})
		case "/api/feed/search":
			atomic.AddInt32(&searchCalls, 1)
			writeTikWM(w, map[string]interface{}{"videos": []map[string]interface{}{}})
		}
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	posts := svc.GetUserFeed(context.Background(), "alice", "")

	if len(posts) != 1 {
		t.Fatalf("期望 1 条帖子，实际 %d", len(posts))
	}
	if atomic.LoadInt32(&searchCalls) != 0 {
		t.Fatal("直连接口有结果时不应触发搜索回退")
	}
}

func TestGetUserFeed_FallbackFiltersByAuthor(t *testing.T) {
	var searchCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/posts":
			// 直连为空，触发回退
			writeTikWM(w, map[string]interface{}{"videos": []map[string]interface{}{}})
		case "/api/feed/search":
			atomic.AddInt32(&searchCalls, 1)
			if r.URL.Query().Get("keywords") != "alice" {
				t.Errorf("搜索关键词应为用户名: %s", r.URL.Query().Get("keywords"))
			}
			writeTikWM(w, map[string]interface{}{
				"videos": []map[string]interface{}{
					rawPost("v1", "alice", 100),
					rawPost("v2", "bob", 200), // 别人的视频，应被过滤
					rawPost("v3", "Alice", 300), // 大小写不同仍算同一作者
				},
			})
		}
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	posts := svc.GetUserFeed(context.Background(), "@alice", "")

	if atomic.LoadInt32(&searchCalls) != 1 {
		t.Fatal("直连为空时应触发一次搜索回退")
	}
	if len(posts) != 2 {
		t.Fatalf("回退结果应只保留目标作者的 2 条，实际 %d", len(posts))
	}
	for _, p := range posts {
		if p.Author.Username != "alice" && p.Author.Username != "Alice" {
			t.Errorf("混入了其他作者的帖子: %s", p.Author.Username)
		}
	}
}

func TestGetUserFeed_BothFailReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	posts := svc.GetUserFeed(context.Background(), "alice", "")

	if posts == nil {
		t.Fatal("失败时应返回空切片而非 nil")
	}
	if len(posts) != 0 {
		t.Fatalf("失败时应返回空列表，实际 %d 条", len(posts))
	}
}

// ==================== 搜索分页 ====================

func TestSearchPosts_CursorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cursor"); got != "30" {
			t.Errorf("cursor 应原样透传，实际: %q", got)
		}
		writeTikWM(w, map[string]interface{}{
			"videos":  []map[string]interface{}{rawPost("v1", "alice", 100)},
			"cursor":  json.Number("60"),
			"hasMore": true,
		})
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	result := svc.SearchPosts(context.Background(), "kopi", "30", "")

	if result.Cursor.String() != "60" {
		t.Errorf("响应 cursor 应原样返回，实际: %s", result.Cursor)
	}
	if !result.HasMore {
		t.Error("hasMore 应为 true")
	}
	if len(result.Posts) != 1 {
		t.Fatalf("期望 1 条结果，实际 %d", len(result.Posts))
	}
}

func TestSearchPosts_FirstPageOmitsCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["cursor"]; ok {
			t.Error("第一页不应携带 cursor 参数")
		}
		writeTikWM(w, map[string]interface{}{"videos": []map[string]interface{}{}})
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	result := svc.SearchPosts(context.Background(), "kopi", "", "")
	if result.Posts == nil {
		t.Fatal("posts 应为空切片而非 nil")
	}
}

func TestFeedAndSearch_CookieForwarded(t *testing.T) {
	var postsCookie, searchCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/posts":
			postsCookie = r.URL.Query().Get("cookie")
			writeTikWM(w, map[string]interface{}{"videos": []map[string]interface{}{}})
		case "/api/feed/search":
			searchCookie = r.URL.Query().Get("cookie")
			writeTikWM(w, map[string]interface{}{"videos": []map[string]interface{}{}})
		}
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)

	// 直连为空触发回退：两个接口都应携带会话凭证
	svc.GetUserFeed(context.Background(), "alice", "sessionid=abc")
	if postsCookie != "sessionid=abc" {
		t.Errorf("帖子接口未携带会话凭证: %q", postsCookie)
	}
	if searchCookie != "sessionid=abc" {
		t.Errorf("回退搜索接口未携带会话凭证: %q", searchCookie)
	}

	searchCookie = ""
	svc.SearchPosts(context.Background(), "kopi", "", "sessionid=xyz")
	if searchCookie != "sessionid=xyz" {
		t.Errorf("搜索接口未携带会话凭证: %q", searchCookie)
	}
}

// ==================== 用户主页 ====================

func TestStalkUser_StripsAtPrefixAndSendsCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("unique_id") != "alice" {
			t.Errorf("@ 前缀应被去掉，实际: %q", q.Get("unique_id"))
		}
		if q.Get("cookie") != "sessionid=abc" {
			t.Errorf("cookie 应作为参数传递，实际: %q", q.Get("cookie"))
		}
		writeTikWM(w, map[string]interface{}{
			"user": map[string]interface{}{
				"uniqueId": "alice",
				"nickname": "Alice",
				"verified": true,
			},
			"stats": map[string]interface{}{
				"followerCount": float64(12345),
				"videoCount":    float64(42),
			},
		})
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	profile, err := svc.StalkUser(context.Background(), "@alice", "sessionid=abc")
	if err != nil {
		t.Fatalf("查询主页失败: %v", err)
	}
	if profile.Username != "alice" || !profile.Verified {
		t.Errorf("主页数据解析错误: %+v", profile)
	}
	if profile.Followers != 12345 || profile.Videos != 42 {
		t.Errorf("统计数据摊平错误: %+v", profile)
	}
}

func TestStalkUser_MissingStatsDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTikWM(w, map[string]interface{}{
			"user": map[string]interface{}{"uniqueId": "bob"},
		})
	}))
	defer server.Close()

	svc := newTestTikWM(server.URL)
	profile, err := svc.StalkUser(context.Background(), "bob", "")
	if err != nil {
		t.Fatalf("查询主页失败: %v", err)
	}
	if profile.Followers != 0 || profile.Hearts != 0 {
		t.Errorf("缺失 stats 时计数应为 0: %+v", profile)
	}
}
