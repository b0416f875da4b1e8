package response

// 提示级别，对应展示层的 flash message
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type Resp struct {
	Code     int         `json:"code"`
	Msg      string      `json:"msg"`
	Data     interface{} `json:"data"`
	Notices  []Notice    `json:"notices,omitempty"`
	Redirect string      `json:"redirect,omitempty"` // 展示层据此跳转（安全页 / 编辑页）
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

// Error 失败响应（可传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

func (r Resp) WithNotice(level, text string) Resp {
	r.Notices = append(r.Notices, Notice{Level: level, Text: text})
	return r
}

func (r Resp) WithRedirect(path string) Resp {
	r.Redirect = path
	return r
}
