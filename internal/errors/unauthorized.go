package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "not authorized, token failed",
	StatusCode: http.StatusUnauthorized,
}
