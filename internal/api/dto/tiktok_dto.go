package dto

import "encoding/json"

// ==================== TikTok Shop 集成 ====================

// ConnectionStatus 店铺授权状态
type ConnectionStatus struct {
	Connected  bool   `json:"connected"`
	ShopID     string `json:"shop_id,omitempty"`
	SellerName string `json:"seller_name,omitempty"`
}

// ==================== 内容查询 ====================

// PostsRequest 拉取用户帖子请求
type PostsRequest struct {
	Username string `json:"username" binding:"required"`
}

// SearchRequest 关键词搜索请求
type SearchRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Cursor  string `json:"cursor"`
}

// DownloadRequest 视频元数据请求
type DownloadRequest struct {
	URL string `json:"url" binding:"required"`
}

// SearchEnvelope 搜索响应
// data 直接是帖子数组，cursor / hasMore 为顶层兄弟字段（前端按此结构消费）
type SearchEnvelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
	Cursor  json.Number `json:"cursor"`
	HasMore bool        `json:"hasMore"`
}

// ==================== 会话设置 ====================

// SessionSettings 会话凭证设置状态（绝不回传 Cookie 原文）
type SessionSettings struct {
	HasCookie bool `json:"has_cookie"`
}

// SaveSessionRequest 保存会话凭证请求，空串表示清除
type SaveSessionRequest struct {
	Cookie string `json:"cookie"`
}
