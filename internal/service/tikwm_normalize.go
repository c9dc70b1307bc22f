package service

import (
	"encoding/json"
	"strconv"
)

// ==================== 字段回退取值 ====================

// pickString 按优先级从原始 map 里取第一个非空字符串
func pickString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// pickInt64 按优先级取第一个可解析为整数的字段，全部缺失返回 0
// 上游同一个数字字段有时是 number 有时是字符串
func pickInt64(raw map[string]interface{}, keys ...string) int64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i
			}
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i
			}
		case int64:
			return n
		case int:
			return int64(n)
		}
	}
	return 0
}

// pickBool 取第一个布尔字段
func pickBool(raw map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// pickMap 取嵌套对象
func pickMap(raw map[string]interface{}, key string) map[string]interface{} {
	if v, ok := raw[key]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

// ==================== 帖子归一化 ====================

// normalizePost 把上游任意形态的帖子对象转成统一结构
// fallbackUsername 在作者信息完全缺失时兜底（搜索接口偶发不带 author）
func normalizePost(raw map[string]interface{}, fallbackUsername string) NormalizedPost {
	author := normalizeAuthor(raw, fallbackUsername)

	id := pickString(raw, "video_id", "id", "aweme_id")
	title := pickString(raw, "title", "desc")

	link := pickString(raw, "share_url")
	if link == "" && author.Username != "" && id != "" {
		link = "https://www.tiktok.com/@" + author.Username + "/video/" + id
	}

	return NormalizedPost{
		ID:          id,
		Type:        "video",
		Title:       title,
		Subtitle:    author.Nickname,
		Cover:       pickString(raw, "cover", "origin_cover", "dynamic_cover"),
		Description: title,
		Link:        link,
		Stats: NormalizedStats{
			Likes:    pickInt64(raw, "digg_count", "like_count"),
			Plays:    pickInt64(raw, "play_count", "view_count"),
			Comments: pickInt64(raw, "comment_count"),
			Shares:   pickInt64(raw, "share_count"),
		},
		Author:   author,
		VideoURL: pickString(raw, "play", "wmplay", "hdplay"),
	}
}

func normalizeAuthor(raw map[string]interface{}, fallbackUsername string) NormalizedAuthor {
	a := pickMap(raw, "author")
	if a == nil {
		return NormalizedAuthor{
			Username: fallbackUsername,
			Nickname: fallbackUsername,
		}
	}

	username := pickString(a, "unique_id", "uniqueId")
	if username == "" {
		username = fallbackUsername
	}
	nickname := pickString(a, "nickname")
	if nickname == "" {
		nickname = username
	}

	return NormalizedAuthor{
		ID:       pickString(a, "id", "uid"),
		Nickname: nickname,
		Username: username,
		Avatar:   pickString(a, "avatar", "avatarThumb", "avatar_thumb"),
	}
}

// ==================== 主页归一化 ====================

// normalizeProfile 把 user + stats 两个嵌套对象摊平成统一主页结构
// stats 可能整体缺失，此时所有计数为 0
func normalizeProfile(user, stats map[string]interface{}) *NormalizedProfile {
	p := &NormalizedProfile{
		Username:  pickString(user, "uniqueId", "unique_id"),
		Nickname:  pickString(user, "nickname"),
		Avatar:    pickString(user, "avatarLarger", "avatarMedium", "avatarThumb", "avatar"),
		Signature: pickString(user, "signature"),
		Verified:  pickBool(user, "verified"),
		Region:    pickString(user, "region"),
	}
	if stats != nil {
		p.Followers = pickInt64(stats, "followerCount", "follower_count")
		p.Following = pickInt64(stats, "followingCount", "following_count")
		p.Hearts = pickInt64(stats, "heartCount", "heart", "digg_count")
		p.Videos = pickInt64(stats, "videoCount", "video_count")
	}
	return p
}
