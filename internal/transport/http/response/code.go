package response

// code 与 HTTP 状态码保持一致，0 表示成功
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooLarge        = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeTooLarge:        "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeUnavailable:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}

// 机器可读错误码
const (
	ErrValidation      = "VALIDATION_ERROR"
	ErrBadRequest      = "BAD_REQUEST"
	ErrDuplicateKey    = "DUPLICATE_KEY"
	ErrNotFound        = "NOT_FOUND"
	ErrAuthorization   = "AUTHORIZATION_ERROR"
	ErrForbidden       = "FORBIDDEN"
	ErrTooLarge        = "PAYLOAD_TOO_LARGE"
	ErrTooManyRequests = "TOO_MANY_REQUESTS"
	ErrServerBusy      = "SERVER_BUSY"
	ErrTimeout         = "TIMEOUT"
	ErrInternal        = "INTERNAL_ERROR"
)
