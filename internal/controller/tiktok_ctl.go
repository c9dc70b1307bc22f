package controller

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/middleware"
	"kol_dash_v1_202608/internal/service"
)

// TikTokController TikTok Shop 授权与内容查询控制器
type TikTokController struct {
	integrationSvc *service.IntegrationService
	tikwmSvc       *service.TikWMService
	sessionSvc     *service.SessionService
}

// NewTikTokController 创建 TikTok 控制器
func NewTikTokController(integrationSvc *service.IntegrationService, tikwmSvc *service.TikWMService, sessionSvc *service.SessionService) *TikTokController {
	return &TikTokController{
		integrationSvc: integrationSvc,
		tikwmSvc:       tikwmSvc,
		sessionSvc:     sessionSvc,
	}
}

// frontendURL 回调后跳转的前端地址
func frontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

// ==================== 授权流程 ====================

// StartAuth 发起店铺授权
// @Summary 发起 TikTok Shop 授权
// @Description 生成授权 URL 并 302 跳转到 TikTok 授权页
// @Tags TikTok (店铺授权)
// @Success 302 {string} string "跳转到授权页"
// @Failure 500 {object} dto.Envelope
// @Router /api/tiktok/auth [get]
func (c *TikTokController) StartAuth(ctx *gin.Context) {
	authURL, err := c.integrationSvc.StartAuth()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail("生成授权链接失败: "+err.Error()))
		return
	}
	ctx.Redirect(http.StatusFound, authURL)
}

// Callback 授权回调
// @Summary TikTok Shop 授权回调
// @Description 用授权码换取令牌并保存，完成后跳回前端设置页
// @Tags TikTok (店铺授权)
// @Param code query string true "授权码"
// @Param state query string true "CSRF state"
// @Success 302 {string} string "跳转回前端"
// @Router /api/tiktok/callback [get]
func (c *TikTokController) Callback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" {
		ctx.Redirect(http.StatusFound, frontendURL()+"/settings?tiktok_error=missing_code")
		return
	}

	if _, err := c.integrationSvc.HandleCallback(ctx.Request.Context(), code, state); err != nil {
		ctx.Redirect(http.StatusFound, frontendURL()+"/settings?tiktok_error=auth_failed")
		return
	}
	ctx.Redirect(http.StatusFound, frontendURL()+"/settings?tiktok_connected=true")
}

// GetStatus 查询连接状态
// @Summary 查询店铺连接状态
// @Tags TikTok (店铺授权)
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.ConnectionStatus}
// @Router /api/tiktok/status [get]
func (c *TikTokController) GetStatus(ctx *gin.Context) {
	connected, record, err := c.integrationSvc.GetStatus(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	status := dto.ConnectionStatus{Connected: connected}
	if record != nil {
		status.ShopID = record.ShopID
		status.SellerName = record.SellerName
	}
	ctx.JSON(http.StatusOK, dto.Success(status))
}

// Disconnect 断开店铺授权
// @Summary 断开店铺授权
// @Description 删除保存的授权记录，无记录也返回成功（幂等）
// @Tags TikTok (店铺授权)
// @Produce json
// @Success 200 {object} dto.Envelope
// @Router /api/tiktok/connection [delete]
func (c *TikTokController) Disconnect(ctx *gin.Context) {
	if err := c.integrationSvc.Disconnect(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"success": true}))
}

// GetCreatorProfile 拉取已授权卖家信息
// @Summary 拉取已授权卖家信息
// @Tags TikTok (店铺授权)
// @Produce json
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope "未连接店铺"
// @Router /api/tiktok/creator/profile [get]
func (c *TikTokController) GetCreatorProfile(ctx *gin.Context) {
	data, err := c.integrationSvc.GetCreatorProfile(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoConnection) {
			ctx.JSON(http.StatusNotFound, dto.Fail(err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(data))
}

// ==================== 内容查询 ====================

// GetPosts 拉取指定用户的帖子（需登录）
// @Summary 拉取用户帖子
// @Description 直连帖子接口，结果为空时自动回退到搜索接口并按作者过滤；全部来源为空返回 404
// @Tags TikTok (内容查询)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostsRequest true "用户名"
// @Success 200 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope "无帖子或账号为私密"
// @Router /api/tiktok/posts [post]
func (c *TikTokController) GetPosts(ctx *gin.Context) {
	var req dto.PostsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: username 不能为空"))
		return
	}

	userID := middleware.GetUserID(ctx)
	cookie := c.sessionSvc.Resolve(ctx.Request.Context(), userID)

	posts := c.tikwmSvc.GetUserFeed(ctx.Request.Context(), req.Username, cookie)
	if len(posts) == 0 {
		ctx.JSON(http.StatusNotFound, dto.Fail("No posts found or user is private."))
		return
	}

	// author 从第一条帖子提取，前端帖子列表页直接用
	ctx.JSON(http.StatusOK, dto.Success(gin.H{
		"posts":  posts,
		"author": posts[0].Author,
	}))
}

// Search 关键词搜索帖子（需登录）
// @Summary 关键词搜索帖子
// @Description cursor 为上游分页令牌，原样透传；空表示第一页。data 为帖子数组，cursor/hasMore 在顶层
// @Tags TikTok (内容查询)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SearchRequest true "关键词与游标"
// @Success 200 {object} dto.SearchEnvelope
// @Failure 400 {object} dto.Envelope
// @Router /api/tiktok/search [post]
func (c *TikTokController) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: keyword 不能为空"))
		return
	}

	userID := middleware.GetUserID(ctx)
	cookie := c.sessionSvc.Resolve(ctx.Request.Context(), userID)

	result := c.tikwmSvc.SearchPosts(ctx.Request.Context(), req.Keyword, req.Cursor, cookie)
	ctx.JSON(http.StatusOK, dto.SearchEnvelope{
		Status:  "success",
		Data:    result.Posts,
		Cursor:  result.Cursor,
		HasMore: result.HasMore,
	})
}

// Stalk 拉取用户主页（可选登录）
// @Summary 拉取用户主页信息
// @Description 登录用户优先使用自己保存的会话凭证，未登录走默认凭证
// @Tags TikTok (内容查询)
// @Produce json
// @Param username query string true "用户名，可带 @ 前缀；也支持路径参数形式"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/tiktok/stalk [get]
func (c *TikTokController) Stalk(ctx *gin.Context) {
	// 路径参数和查询参数两种形式都接受
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		username = strings.TrimSpace(ctx.Query("username"))
	}
	if username == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: username 不能为空"))
		return
	}

	userID := middleware.GetUserID(ctx)
	cookie := c.sessionSvc.Resolve(ctx.Request.Context(), userID)

	profile, err := c.tikwmSvc.StalkUser(ctx.Request.Context(), username, cookie)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(profile))
}

// Download 拉取单条视频元数据
// @Summary 拉取视频元数据
// @Description GET 走 url 查询参数，POST 走 JSON body，两种形式等价
// @Tags TikTok (内容查询)
// @Accept json
// @Produce json
// @Param url query string true "视频 URL"
// @Success 200 {object} dto.Envelope
// @Failure 400 {object} dto.Envelope
// @Router /api/tiktok/download [get]
func (c *TikTokController) Download(ctx *gin.Context) {
	var req dto.DownloadRequest
	if ctx.Request.Method == http.MethodGet {
		req.URL = strings.TrimSpace(ctx.Query("url"))
		if req.URL == "" {
			ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: url 不能为空"))
			return
		}
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: url 不能为空"))
		return
	}
	if !strings.Contains(req.URL, "tiktok.com") {
		ctx.JSON(http.StatusBadRequest, dto.Fail("仅支持 tiktok.com 视频链接"))
		return
	}

	data, err := c.tikwmSvc.DownloadVideo(ctx.Request.Context(), req.URL)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(data))
}

// Trending 热门内容
// @Summary 热门内容（暂未实现）
// @Description 上游热门接口尚未接入，返回明确的未实现标记，区别于空结果
// @Tags TikTok (内容查询)
// @Produce json
// @Success 200 {object} dto.Envelope
// @Router /api/tiktok/trending [get]
func (c *TikTokController) Trending(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(gin.H{
		"posts":       []interface{}{},
		"implemented": false,
	}, "热门内容接口暂未接入"))
}

// ==================== 会话凭证设置 ====================

// GetSettings 查询会话凭证状态（需登录）
// @Summary 查询会话凭证状态
// @Description 只返回是否已配置，绝不回传 Cookie 原文
// @Tags TikTok (会话设置)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.SessionSettings}
// @Router /api/tiktok/settings [get]
func (c *TikTokController) GetSettings(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)
	ctx.JSON(http.StatusOK, dto.Success(dto.SessionSettings{
		HasCookie: c.sessionSvc.HasUserCookie(ctx.Request.Context(), userID),
	}))
}

// SaveSettings 保存会话凭证（需登录）
// @Summary 保存会话凭证
// @Description 空字符串表示清除已保存的凭证
// @Tags TikTok (会话设置)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveSessionRequest true "会话 Cookie"
// @Success 200 {object} dto.Envelope
// @Router /api/tiktok/settings [post]
func (c *TikTokController) SaveSettings(ctx *gin.Context) {
	var req dto.SaveSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: " + err.Error()))
		return
	}

	userID := middleware.GetUserID(ctx)
	if err := c.sessionSvc.Save(ctx.Request.Context(), userID, req.Cookie); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	message := "会话凭证已保存"
	if req.Cookie == "" {
		message = "会话凭证已清除"
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(nil, message))
}
