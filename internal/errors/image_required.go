package errors

import "net/http"

var ErrImageRequired = &Exception{
	Message:    "no file uploaded",
	StatusCode: http.StatusBadRequest,
}
