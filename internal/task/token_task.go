package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"kol_dash_v1_202608/internal/model"
	"kol_dash_v1_202608/internal/service"
)

// TokenTask TikTok Shop 令牌保活任务
// 定期查出即将过期的授权记录并刷新；刷新失败的记录被标记为 expired，
// 等待用户在设置页手动重新授权
type TokenTask struct {
	IntegrationSvc *service.IntegrationService
	Cron           *cron.Cron

	// 控制并发刷新数量，上游令牌接口有频控
	concurrencyLimit int
	// 提前量：access token 在此窗口内过期即触发刷新
	refreshAhead time.Duration
}

// NewTokenTask 创建令牌保活任务
func NewTokenTask(integrationSvc *service.IntegrationService) *TokenTask {
	return &TokenTask{
		IntegrationSvc:   integrationSvc,
		Cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		concurrencyLimit: 5,
		refreshAhead:     time.Hour,
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次令牌检查...")
		t.refreshJob(ctx)
	}()

	// 每 30 分钟检查一次
	_, err := t.Cron.AddFunc("0 0/30 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动令牌定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("令牌保活任务已启动 (每30分钟检查一次)")
}

// Stop 停止定时任务
func (t *TokenTask) Stop() {
	t.Cron.Stop()
}

// refreshJob 自动刷新逻辑
func (t *TokenTask) refreshJob(ctx context.Context) {
	before := time.Now().Add(t.refreshAhead).Unix()
	records, err := t.IntegrationSvc.FindExpiring(ctx, before)
	if err != nil {
		log.Printf("[Cron] 过期授权查询失败: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] 开始刷新 %d 条授权记录的令牌", len(records))

	for _, record := range records {
		select {
		case <-ctx.Done():
			log.Println("[Cron] 任务超时停止")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(r model.Integration) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.IntegrationSvc.RefreshToken(ctx, &r); err != nil {
				log.Printf("[Cron] %v", err)
				return
			}
			log.Printf("[Cron] 令牌刷新成功 id=%d shop_id=%s", r.ID, r.ShopID)
		}(record)
	}

	wg.Wait()
}
