package response

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// ErrData 错误响应的 data 部分
type ErrData struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, errCode, customMsg string) Resp {
	return Fail(code, errCode, customMsg, nil)
}

// Fail 带 details 的失败响应
func Fail(code int, errCode, customMsg string, details interface{}) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, ErrData{Error: errCode, Details: details})
}
