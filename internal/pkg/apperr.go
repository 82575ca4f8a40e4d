package pkg

import (
	"errors"
	"net/http"
)

// Kind 错误分类，客户端只认分类不认后端的自由文案
type Kind int

const (
	KindGeneral Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindAlreadyReserved
	KindInternal
	KindUnavailable
	KindNetwork
)

// 每个分类固定一条对用户可见的文案，服务端自由文本一律丢弃
var kindMessages = map[Kind]string{
	KindGeneral:         "请求处理失败",
	KindBadRequest:      "请求参数有误",
	KindUnauthorized:    "请先登录",
	KindForbidden:       "没有操作权限",
	KindNotFound:        "对象不存在或已被删除",
	KindAlreadyReserved: "手慢了，已经被别人先认领了",
	KindInternal:        "服务器开小差了，请稍后重试",
	KindUnavailable:     "服务器开小差了，请稍后重试",
	KindNetwork:         "网络异常，请检查网络连接",
}

var kindStatus = map[Kind]int{
	KindGeneral:         http.StatusInternalServerError,
	KindBadRequest:      http.StatusBadRequest,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindAlreadyReserved: http.StatusConflict,
	KindInternal:        http.StatusInternalServerError,
	KindUnavailable:     http.StatusServiceUnavailable,
	KindNetwork:         http.StatusBadGateway,
}

// AppError 带分类的业务错误
type AppError struct {
	Kind Kind
	Op   string // 出错的操作，日志用
	Err  error  // 底层原因，可为空
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + kindMessages[e.Kind]
}

func (e *AppError) Unwrap() error { return e.Err }

func E(kind Kind, op string) error {
	return &AppError{Kind: kind, Op: op}
}

func Wrap(kind Kind, op string, err error) error {
	return &AppError{Kind: kind, Op: op, Err: err}
}

// KindOf 取出错误分类，识别不了就归入 general
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindGeneral
}

// Message 固定文案查表
func Message(kind Kind) string {
	return kindMessages[kind]
}

// HTTPStatus 分类到HTTP状态码
func HTTPStatus(kind Kind) int {
	return kindStatus[kind]
}

// Classify 传输层失败归类：先看HTTP状态段，没有响应算网络错误，其余归general
func Classify(status int, received bool) Kind {
	if !received {
		return KindNetwork
	}
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindAlreadyReserved
	case http.StatusServiceUnavailable:
		return KindUnavailable
	}
	if status >= 500 && status < 600 {
		return KindInternal
	}
	return KindGeneral
}
