package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/service"
)

// InstagramController Instagram 数据代理控制器
type InstagramController struct {
	instagramSvc *service.InstagramService
}

// NewInstagramController 创建 Instagram 控制器
func NewInstagramController(instagramSvc *service.InstagramService) *InstagramController {
	return &InstagramController{instagramSvc: instagramSvc}
}

// GetProfile 拉取 Instagram 用户主页
// @Summary 拉取 Instagram 用户主页
// @Description 代理到独立抓取服务，服务不可达时返回 503
// @Tags Instagram
// @Produce json
// @Param username path string true "用户名，可带 @ 前缀"
// @Success 200 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/instagram/profile/{username} [get]
func (c *InstagramController) GetProfile(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: username 不能为空"))
		return
	}

	data, err := c.instagramSvc.GetProfile(ctx.Request.Context(), username)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(data))
}

// GetPosts 拉取 Instagram 用户帖子
// @Summary 拉取 Instagram 用户帖子
// @Tags Instagram
// @Produce json
// @Param username path string true "用户名，可带 @ 前缀"
// @Success 200 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/instagram/posts/{username} [get]
func (c *InstagramController) GetPosts(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: username 不能为空"))
		return
	}

	data, err := c.instagramSvc.GetPosts(ctx.Request.Context(), username)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(data))
}

func (c *InstagramController) writeError(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrScraperUnavailable) {
		ctx.JSON(http.StatusServiceUnavailable, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
}
