package pkg

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyByStatusClass(t *testing.T) {
	// 409必须归到“被抢先”，不能落到general
	assert.Equal(t, KindAlreadyReserved, Classify(http.StatusConflict, true))

	assert.Equal(t, KindBadRequest, Classify(http.StatusBadRequest, true))
	assert.Equal(t, KindUnauthorized, Classify(http.StatusUnauthorized, true))
	assert.Equal(t, KindForbidden, Classify(http.StatusForbidden, true))
	assert.Equal(t, KindNotFound, Classify(http.StatusNotFound, true))
	assert.Equal(t, KindUnavailable, Classify(http.StatusServiceUnavailable, true))
	assert.Equal(t, KindInternal, Classify(http.StatusInternalServerError, true))
	assert.Equal(t, KindInternal, Classify(http.StatusBadGateway, true))

	// 没收到响应 -> 网络错误
	assert.Equal(t, KindNetwork, Classify(0, false))
	// 其余一律general
	assert.Equal(t, KindGeneral, Classify(http.StatusTeapot, true))
}

func TestKindOfUnwraps(t *testing.T) {
	err := Wrap(KindAlreadyReserved, "claim", errors.New("db text that must not leak"))
	assert.Equal(t, KindAlreadyReserved, KindOf(err))
	// 包一层还能识别
	assert.Equal(t, KindAlreadyReserved, KindOf(Wrap(KindAlreadyReserved, "outer", err)))
	// 非AppError归general
	assert.Equal(t, KindGeneral, KindOf(errors.New("plain")))
}

// 对用户的文案固定查表，不透传服务端自由文本
func TestFixedMessages(t *testing.T) {
	err := Wrap(KindAlreadyReserved, "claim", errors.New("Duplicate entry '42'"))
	msg := Message(KindOf(err))
	assert.Equal(t, Message(KindAlreadyReserved), msg)
	assert.NotContains(t, msg, "Duplicate")

	for _, k := range []Kind{KindGeneral, KindBadRequest, KindUnauthorized, KindForbidden,
		KindNotFound, KindAlreadyReserved, KindInternal, KindUnavailable, KindNetwork} {
		assert.NotEmpty(t, Message(k))
		assert.NotZero(t, HTTPStatus(k))
	}
}
