package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gin-gorm-user-service/internal/core/auth"
	resp "gin-gorm-user-service/internal/transport/http/response"
)

const KeyClaims = auth.ClaimsKey

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string     // "GET" | "POST" | "PUT" | "DELETE"
	Path    string     // 例："/auth/sign-in"、"/users/:id"
	Binder  Binder     // 绑定方式
	Guard   auth.Guard // 为 nil 表示公开接口
	Status  int        // 成功时的 HTTP 状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 守卫 → 绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 守卫：拒绝时不进入 handler
		if a.Guard != nil {
			d := a.Guard.Check(c.Request)
			if !d.Allowed {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					resp.Error(resp.CodeUnauthorized, resp.ErrAuthorization, d.Reason))
				return
			}
			if d.Claims != nil {
				c.Set(KeyClaims, d.Claims)
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			writeBindError(c, bindErr)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// Claims 取出守卫写入的 claims
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}

// AErr 由 handler 主动返回的错误
type AErr struct {
	Code    int
	ErrCode string
	Msg     string
	Err     error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error {
	return &AErr{Code: resp.CodeBadRequest, ErrCode: resp.ErrBadRequest, Msg: msg}
}
