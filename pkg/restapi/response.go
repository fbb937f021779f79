package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hls-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: errno.OK.Code, Message: errno.OK.Message, Data: data})
}

// Failed 返回失败响应，根据错误类型映射HTTP状态码
func Failed(c *gin.Context, err error) {
	var e *errno.Errno
	if !errors.As(err, &e) {
		e = errno.ErrUnknown
	}
	c.JSON(httpStatus(e), Response{Code: e.Code, Message: err.Error()})
}

func httpStatus(e *errno.Errno) int {
	switch e {
	case errno.ErrInvalidRequest, errno.ErrInvalidQuality, errno.ErrParameterInvalid:
		return http.StatusBadRequest
	case errno.ErrNotFound, errno.ErrJobNotFound:
		return http.StatusNotFound
	case errno.ErrQueueFull:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
