package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/token-dispenser/pkg/common/apperr"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// SuccessResponse writes data with the HTTP status mapped from code.
func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(StatusOf(code), Response{
		Code:    code,
		Message: MessageOf(code),
		Data:    data,
	})
}

// ErrorResponse writes an error envelope for code. detail may be an error or a string.
func ErrorResponse(c *gin.Context, code int, detail any) {
	c.AbortWithStatusJSON(StatusOf(code), Response{
		Code:    code,
		Message: ToErrorResponse(detail),
	})
}

// AppErrorResponse writes an envelope carrying the AppError's own code and status.
func AppErrorResponse(c *gin.Context, err *apperr.AppError) {
	status := err.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, Response{
		Code:    err.Code,
		Message: err.Message,
	})
}

// ToErrorResponse renders detail as a message string.
func ToErrorResponse(detail any) string {
	switch v := detail.(type) {
	case nil:
		return ""
	case error:
		return v.Error()
	case string:
		return v
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}
