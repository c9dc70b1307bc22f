package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kol_dash_v1_202608/internal/controller"
	"kol_dash_v1_202608/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	tiktokCtl *controller.TikTokController,
	instagramCtl *controller.InstagramController,
	mediaCtl *controller.MediaController,
	userCtl *controller.UserController,
	kolCtl *controller.KOLController,
	campaignCtl *controller.CampaignController,
	invoiceCtl *controller.InvoiceController,
	contractCtl *controller.ContractController) {
	// Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", userCtl.Register)
			auth.POST("/login", userCtl.Login)
			auth.POST("/refresh", userCtl.RefreshToken)
			auth.GET("/profile", middleware.JWTAuth(), userCtl.GetProfile)
		}

		// tiktok 店铺授权 + 内容查询
		tiktok := api.Group("/tiktok")
		{
			// 授权流程（浏览器跳转，不走 JWT）
			tiktok.GET("/auth", tiktokCtl.StartAuth)
			tiktok.GET("/callback", tiktokCtl.Callback)
			tiktok.GET("/status", tiktokCtl.GetStatus)
			tiktok.DELETE("/connection", tiktokCtl.Disconnect)
			tiktok.GET("/creator/profile", tiktokCtl.GetCreatorProfile)

			// 内容查询
			tiktok.POST("/posts", middleware.JWTAuth(), tiktokCtl.GetPosts)
			tiktok.POST("/search", middleware.JWTAuth(), tiktokCtl.Search)
			tiktok.GET("/stalk", middleware.OptionalAuth(), tiktokCtl.Stalk)
			tiktok.GET("/stalk/:username", middleware.OptionalAuth(), tiktokCtl.Stalk)
			tiktok.GET("/download", tiktokCtl.Download)
			tiktok.POST("/download", tiktokCtl.Download)
			tiktok.GET("/trending", middleware.JWTAuth(), tiktokCtl.Trending)

			// 会话凭证设置
			tiktok.GET("/settings", middleware.JWTAuth(), tiktokCtl.GetSettings)
			tiktok.POST("/settings", middleware.JWTAuth(), tiktokCtl.SaveSettings)
		}

		// instagram 代理（需登录）
		instagram := api.Group("/instagram")
		instagram.Use(middleware.JWTAuth())
		{
			instagram.GET("/profile/:username", instagramCtl.GetProfile)
			instagram.GET("/posts/:username", instagramCtl.GetPosts)
		}

		// 图片代理
		api.GET("/image-proxy", mediaCtl.ProxyImage)

		// kol 达人管理
		kols := api.Group("/kols")
		{
			kols.GET("", kolCtl.List)
			kols.GET("/:id", kolCtl.Get)
			kols.POST("", middleware.JWTAuth(), middleware.AuditContext(), kolCtl.Create)
			kols.PUT("/:id", middleware.JWTAuth(), middleware.AuditContext(), kolCtl.Update)
			kols.DELETE("/:id", middleware.JWTAuth(), middleware.AuditContext(), kolCtl.Delete)
			kols.POST("/:id/refresh",
				middleware.JWTAuth(),
				middleware.ScrapeRateLimit("kol_refresh", time.Minute),
				kolCtl.RefreshStats,
			)
		}

		// campaign 活动管理
		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", campaignCtl.List)
			campaigns.GET("/:id", campaignCtl.Get)
			campaigns.GET("/:id/report", campaignCtl.GetReport)
			campaigns.GET("/:id/recommendations", campaignCtl.GetRecommendations)
			campaigns.POST("", middleware.JWTAuth(), middleware.AuditContext(), campaignCtl.Create)
			campaigns.PUT("/:id", middleware.JWTAuth(), middleware.AuditContext(), campaignCtl.Update)
			campaigns.DELETE("/:id", middleware.JWTAuth(), middleware.AuditContext(), campaignCtl.Delete)
			campaigns.POST("/:id/brief", middleware.JWTAuth(), campaignCtl.GenerateBrief)
			campaigns.POST("/:id/deliverables", middleware.JWTAuth(), campaignCtl.AddDeliverable)
		}

		// deliverable 交付项（独立前缀便于直接按 ID 操作）
		deliverables := api.Group("/deliverables")
		{
			deliverables.PUT("/:id", middleware.JWTAuth(), campaignCtl.UpdateDeliverable)
			deliverables.DELETE("/:id", middleware.JWTAuth(), campaignCtl.DeleteDeliverable)
			deliverables.GET("/:id/attachments", campaignCtl.ListAttachments)
			deliverables.POST("/:id/attachments", middleware.JWTAuth(), campaignCtl.UploadAttachment)
		}
		api.DELETE("/attachments/:id", middleware.JWTAuth(), campaignCtl.DeleteAttachment)

		// invoice 发票管理
		invoices := api.Group("/invoices")
		{
			invoices.GET("", invoiceCtl.List)
			invoices.GET("/export", middleware.JWTAuth(), invoiceCtl.ExportCSV)
			invoices.GET("/:id", invoiceCtl.Get)
			invoices.POST("", middleware.JWTAuth(), invoiceCtl.Create)
			invoices.PUT("/:id", middleware.JWTAuth(), invoiceCtl.Update)
			invoices.POST("/:id/pay", middleware.JWTAuth(), invoiceCtl.MarkPaid)
			invoices.DELETE("/:id", middleware.JWTAuth(), invoiceCtl.Delete)
		}

		// contract 合同管理
		contracts := api.Group("/contracts")
		{
			contracts.GET("", contractCtl.List)
			contracts.GET("/:id", contractCtl.Get)
			contracts.POST("", middleware.JWTAuth(), contractCtl.Create)
			contracts.PUT("/:id", middleware.JWTAuth(), contractCtl.Update)
			contracts.DELETE("/:id", middleware.JWTAuth(), contractCtl.Delete)
		}
	}
}
