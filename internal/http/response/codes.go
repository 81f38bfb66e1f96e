package response

import "net/http"

const (
	CodeOK                 = http.StatusOK
	CodeCreated            = http.StatusCreated
	CodeBadRequest         = http.StatusBadRequest
	CodeUnauthorized       = http.StatusUnauthorized
	CodeForbidden          = http.StatusForbidden
	CodeNotFound           = http.StatusNotFound
	CodeMethodNotAllowed   = http.StatusMethodNotAllowed
	CodeConflict           = http.StatusConflict
	CodeTooManyRequests    = http.StatusTooManyRequests
	CodeInternal           = http.StatusInternalServerError
	CodeServiceUnavailable = http.StatusServiceUnavailable
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
