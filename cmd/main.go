package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kol_dash_v1_202608/internal/controller"
	"kol_dash_v1_202608/internal/middleware"
	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/repository"
	"kol_dash_v1_202608/internal/router"
	"kol_dash_v1_202608/internal/service"
	"kol_dash_v1_202608/internal/task"
	"kol_dash_v1_202608/pkg/database"
)

// @title KOL Dashboard API
// @version 1.0
// @description 达人营销活动管理后端：TikTok Shop 授权、内容抓取、活动与结算管理
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.TikTok,
		deps.Controllers.Instagram,
		deps.Controllers.Media,
		deps.Controllers.User,
		deps.Controllers.KOL,
		deps.Controllers.Campaign,
		deps.Controllers.Invoice,
		deps.Controllers.Contract,
	)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User        repository.UserRepository
	Integration repository.IntegrationRepository
	KOL         repository.KOLRepository
	Campaign    repository.CampaignRepository
	Invoice     repository.InvoiceRepository
	Contract    repository.ContractRepository
}

// Services 服务集合
type Services struct {
	User        *service.UserService
	Session     *service.SessionService
	TikTokShop  *service.TikTokShopService
	Integration *service.IntegrationService
	TikWM       *service.TikWMService
	Instagram   *service.InstagramService
	Scorecard   *service.ScorecardService
	KOL         *service.KOLService
	Campaign    *service.CampaignService
	Matchmaker  *service.MatchmakerService
	Invoice     *service.InvoiceService
	Contract    *service.ContractService
	AI          *service.AIService
	Storage     service.StorageProvider
}

// Controllers 控制器集合
type Controllers struct {
	TikTok    *controller.TikTokController
	Instagram *controller.InstagramController
	Media     *controller.MediaController
	User      *controller.UserController
	KOL       *controller.KOLController
	Campaign  *controller.CampaignController
	Invoice   *controller.InvoiceController
	Contract  *controller.ContractController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_URL",
		"host=localhost user=postgres password=postgres dbname=kol_dash port=5432 sslmode=disable TimeZone=Asia/Jakarta")
	return database.InitDB(dsn,
		// Account
		&model.SysUser{},
		// Integration
		&model.Integration{},
		// KOL
		&model.KOL{},
		// Campaign
		&model.Campaign{}, &model.Deliverable{}, &model.Attachment{},
		// Billing
		&model.Invoice{}, &model.InvoiceItem{},
		&model.Contract{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		User:        repository.NewUserRepository(db),
		Integration: repository.NewIntegrationRepository(db),
		KOL:         repository.NewKOLRepository(db),
		Campaign:    repository.NewCampaignRepository(db),
		Invoice:     repository.NewInvoiceRepository(db),
		Contract:    repository.NewContractRepository(db),
	}

	// -------- 基础服务 --------
	sessionSvc := service.NewSessionService(repos.User)
	shopClient := service.NewTikTokShopService(&service.TikTokShopConfig{
		AppKey:      getEnv("TIKTOK_APP_KEY", ""),
		AppSecret:   getEnv("TIKTOK_APP_SECRET", ""),
		RedirectURI: getEnv("TIKTOK_REDIRECT_URI", "http://localhost:8080/api/tiktok/callback"),
	})
	tikwmSvc := service.NewTikWMService(&service.TikWMConfig{
		BaseURL: getEnv("TIKWM_BASE_URL", ""),
	})
	instagramSvc := service.NewInstagramService(&service.InstagramConfig{
		BaseURL: getEnv("INSTAGRAM_SCRAPER_URL", ""),
	})
	storage := initStorage()

	// -------- 业务服务 --------
	services := &Services{
		User:        service.NewUserService(repos.User),
		Session:     sessionSvc,
		TikTokShop:  shopClient,
		Integration: service.NewIntegrationService(repos.Integration, shopClient),
		TikWM:       tikwmSvc,
		Instagram:   instagramSvc,
		Scorecard:   service.NewScorecardService(),
		Matchmaker:  service.NewMatchmakerService(repos.KOL),
		Invoice:     service.NewInvoiceService(repos.Invoice),
		Contract:    service.NewContractService(repos.Contract, repos.KOL),
		AI:          service.NewAIService(getEnv("GEMINI_API_KEY", ""), getEnv("GEMINI_MODEL", "")),
		Storage:     storage,
	}
	services.KOL = service.NewKOLService(repos.KOL, tikwmSvc, sessionSvc)
	services.Campaign = service.NewCampaignService(repos.Campaign, services.Scorecard, storage)

	// -------- Controller 层 --------
	controllers := &Controllers{
		TikTok:    controller.NewTikTokController(services.Integration, tikwmSvc, sessionSvc),
		Instagram: controller.NewInstagramController(instagramSvc),
		Media:     controller.NewMediaController(),
		User:      controller.NewUserController(services.User),
		KOL:       controller.NewKOLController(services.KOL),
		Campaign:  controller.NewCampaignController(services.Campaign, services.Matchmaker, services.AI, services.KOL),
		Invoice:   controller.NewInvoiceController(services.Invoice),
		Contract:  controller.NewContractController(services.Contract),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorage 初始化附件存储
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "kol-dash"),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storage
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	tokenTask := task.NewTokenTask(deps.Services.Integration)
	tokenTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

// getEnv 读取环境变量，缺省时返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
