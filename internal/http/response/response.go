package response

import (
	"github.com/userdesk/internal/constants"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Status  string      `json:"status"`         // success / error
	Message string      `json:"message"`        // 提示消息
	Data    interface{} `json:"data,omitempty"` // 数据内容
}

// Success 成功响应
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(CodeOK, Response{
		Status:  StatusSuccess,
		Message: msg,
		Data:    data,
	})
}

// Created 201 成功响应
func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(CodeCreated, Response{
		Status:  StatusSuccess,
		Message: msg,
		Data:    data,
	})
}

// Error 错误响应，HTTP 状态码即业务码
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, Response{
		Status:  StatusError,
		Message: msg,
		Data:    attachRequestID(c, nil),
	})
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  StatusError,
		Message: msg,
		Data:    attachRequestID(c, data),
	})
}

func attachRequestID(c *gin.Context, data interface{}) interface{} {
	requestID := ""
	if c != nil {
		requestID = c.GetString(constants.ContextKeyRequestID)
	}
	if requestID == "" {
		return data
	}
	if data == nil {
		return gin.H{"request_id": requestID}
	}
	switch v := data.(type) {
	case gin.H:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	case map[string]interface{}:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	default:
		return gin.H{
			"request_id": requestID,
			"data":       data,
		}
	}
}
