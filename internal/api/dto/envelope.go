package dto

// ==================== 统一响应外壳 ====================

// Envelope 所有接口的统一响应结构
// status 只有 "success" / "error" 两个值；
// 成功时带 data（可选 message），失败时 error 为人类可读的失败原因
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success 成功响应
func Success(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

// SuccessWithMessage 成功响应（附带提示信息）
func SuccessWithMessage(data interface{}, message string) Envelope {
	return Envelope{Status: "success", Data: data, Message: message}
}

// Fail 失败响应
func Fail(errMsg string) Envelope {
	return Envelope{Status: "error", Error: errMsg}
}

// ==================== 分页 ====================

// PageResult 分页结果
type PageResult struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
