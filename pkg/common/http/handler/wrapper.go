package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/token-dispenser/pkg/common/apperr"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/request"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/response"
)

// HandlerFunc is the generic function signature
type HandlerFunc[T any, R any] func(context.Context, *T) (R, error)

// Wrap converts a generic handler to a Gin handler answering CodeSuccess.
func Wrap[T any, R any](h HandlerFunc[T, R]) gin.HandlerFunc {
	return WrapCode(response.CodeSuccess, h)
}

// WrapCode converts a generic handler to a Gin handler answering code on success.
// Errors carrying an *apperr.AppError keep their own code and status; anything
// else is reported as an internal error.
func WrapCode[T any, R any](code int, h HandlerFunc[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := request.ParseRequest[T](c)
		if err != nil {
			writeError(c, err)
			return
		}

		res, err := h(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}

		response.SuccessResponse(c, code, res)
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	if appErr, ok := apperr.As(err); ok {
		response.AppErrorResponse(c, appErr)
		return
	}
	response.ErrorResponse(c, response.CodeInternalServer, err)
}
