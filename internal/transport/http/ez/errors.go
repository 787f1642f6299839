package ez

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gin-gorm-user-service/internal/domain"
	resp "gin-gorm-user-service/internal/transport/http/response"
)

// WriteError 把领域错误翻译成 HTTP 状态 + 机器码；500 的原因只写日志
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	var (
		ve  *domain.ValidationError
		ae  *AErr
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		abort(c, resp.Fail(resp.CodeBadRequest, resp.ErrValidation, ve.Error(), ve.Fields))
	case errors.Is(err, domain.ErrDuplicateKey):
		abort(c, resp.Fail(resp.CodeConflict, resp.ErrDuplicateKey, err.Error(), gin.H{"field": "email"}))
	case errors.Is(err, domain.ErrNotFound):
		abort(c, resp.Error(resp.CodeNotFound, resp.ErrNotFound, err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		abort(c, resp.Error(resp.CodeUnauthorized, resp.ErrAuthorization, err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		abort(c, resp.Error(resp.CodeTimeout, resp.ErrTimeout, "timeout"))
	case errors.As(err, &mbe):
		abort(c, resp.Error(resp.CodeTooLarge, resp.ErrTooLarge, "request body too large"))
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			logInternal(c, l, err)
		}
		abort(c, resp.Error(ae.Code, ae.ErrCode, ae.Error()))
	default:
		logInternal(c, l, err)
		abort(c, resp.Error(resp.CodeServerError, resp.ErrInternal, ""))
	}
}

func abort(c *gin.Context, r resp.Resp) { c.AbortWithStatusJSON(r.Code, r) }

// writeBindError 请求体无法解析
func writeBindError(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		abort(c, resp.Error(resp.CodeTooLarge, resp.ErrTooLarge, "request body too large"))
		return
	}
	abort(c, resp.Error(resp.CodeBadRequest, resp.ErrBadRequest, err.Error()))
}

func logInternal(c *gin.Context, l *zap.Logger, err error) {
	l.Error("request failed",
		zap.String("rid", c.GetString("X-Request-ID")),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}
