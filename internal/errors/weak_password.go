package errors

import "net/http"

var ErrWeakPassword = &Exception{
	Message:    "password must be at least 8 characters",
	StatusCode: http.StatusBadRequest,
}
