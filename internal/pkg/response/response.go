package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess            = 0
	CodeParamError         = 1000
	CodeAuthFailed         = 1001
	CodePermissionDenied   = 1002
	CodeResourceNotFound   = 1003
	CodeQuotaExceeded      = 1004
	CodeDuplicateAction    = 1005
	CodeNoSubscription     = 1006
	CodeSchedulingConflict = 1007
	CodeInvalidState       = 1008
	CodeServerError        = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeParamError:         "参数错误",
	CodeAuthFailed:         "认证失败",
	CodePermissionDenied:   "权限不足",
	CodeResourceNotFound:   "资源不存在",
	CodeQuotaExceeded:      "直播时长配额不足",
	CodeDuplicateAction:    "重复操作",
	CodeNoSubscription:     "没有有效的订阅",
	CodeSchedulingConflict: "直播时间冲突",
	CodeInvalidState:       "直播状态不允许该操作",
	CodeServerError:        "服务器内部错误",
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Message 返回错误码的默认消息
func Message(code int) string {
	return codeMessages[code]
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData 携带结构化数据的错误响应，用于配额和冲突拒绝
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// QuotaError 配额不足
func QuotaError(c *gin.Context, message string, data interface{}) {
	ErrorWithData(c, CodeQuotaExceeded, message, data)
}

// DuplicateError 重复操作
func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

// NoSubscriptionError 没有有效订阅
func NoSubscriptionError(c *gin.Context, message string) {
	Error(c, CodeNoSubscription, message)
}

// ConflictError 时间冲突
func ConflictError(c *gin.Context, message string, data interface{}) {
	ErrorWithData(c, CodeSchedulingConflict, message, data)
}

// StateError 非法状态转换
func StateError(c *gin.Context, message string) {
	Error(c, CodeInvalidState, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
