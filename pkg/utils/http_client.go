package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewAPIClient 创建一个配置好超时和重试的 Resty 客户端
// 它是全系统统一的上游请求入口，重试只针对网络层错误，
// 上游业务错误 (code != 0) 由调用方自行判断，不在这里重试
func NewAPIClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).       // 线性退避起点
		SetHeader("User-Agent", "KOL-Dash-Go-App/1.0") // 统一 UA

	return client
}
