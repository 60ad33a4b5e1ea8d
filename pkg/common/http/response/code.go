package response

import "net/http"

const (
	CodeSuccess          = 2000
	CodeCreated          = 2010
	CodeParamInvalid     = 4000
	CodeValidationFailed = 4001
	CodeNotFound         = 4040
	CodeQueueFull        = 4091
	CodeQueueEmpty       = 4092
	CodeInternalServer   = 5000
)

var codeStatus = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeCreated:          http.StatusCreated,
	CodeParamInvalid:     http.StatusBadRequest,
	CodeValidationFailed: http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeQueueFull:        http.StatusConflict,
	CodeQueueEmpty:       http.StatusConflict,
	CodeInternalServer:   http.StatusInternalServerError,
}

var codeMessage = map[int]string{
	CodeSuccess:          "success",
	CodeCreated:          "created",
	CodeParamInvalid:     "invalid parameters",
	CodeValidationFailed: "validation failed",
	CodeNotFound:         "not found",
	CodeQueueFull:        "queue is full",
	CodeQueueEmpty:       "queue is empty",
	CodeInternalServer:   "internal server error",
}

// StatusOf maps a response code to its HTTP status; unknown codes map to 500.
func StatusOf(code int) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// MessageOf returns the default message for code.
func MessageOf(code int) string {
	return codeMessage[code]
}
