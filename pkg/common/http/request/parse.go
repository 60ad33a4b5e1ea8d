package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/token-dispenser/pkg/common/apperr"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/response"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/validation"
)

// ParseRequest binds query parameters and, when a body is present, JSON into T,
// then validates it.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, apperr.NewError("request", response.CodeParamInvalid, apperr.MsgInvalidParams, http.StatusBadRequest, err)
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, apperr.NewError("request", response.CodeParamInvalid, apperr.MsgInvalidParams, http.StatusBadRequest, err)
		}
	}

	if ok, msg := validation.IsRequestValid(req); !ok {
		return nil, apperr.New(response.CodeValidationFailed, msg, http.StatusBadRequest, nil)
	}

	return &req, nil
}
