package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kol_dash_v1_202608/internal/api/dto"
	"kol_dash_v1_202608/internal/middleware"
	"kol_dash_v1_202608/internal/service"
)

// UserController 用户控制器
type UserController struct {
	userService *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register 用户注册
// @Summary 用户注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 200 {object} dto.Envelope{data=dto.UserInfo}
// @Failure 400 {object} dto.Envelope
// @Router /api/auth/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}

	user, err := c.userService.Register(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(user, "注册成功"))
}

// Login 用户登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 401 {object} dto.Envelope
// @Router /api/auth/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}

	resp, err := c.userService.Login(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessWithMessage(resp, "登录成功"))
}

// RefreshToken 刷新 Token
// @Summary 刷新 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.Envelope{data=dto.RefreshTokenResponse}
// @Failure 401 {object} dto.Envelope
// @Router /api/auth/refresh [post]
func (c *UserController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Fail("参数错误: "+err.Error()))
		return
	}

	resp, err := c.userService.RefreshToken(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(resp))
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.UserInfo}
// @Failure 401 {object} dto.Envelope
// @Router /api/auth/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(user))
}
