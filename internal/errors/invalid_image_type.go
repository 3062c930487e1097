package errors

import "net/http"

var ErrInvalidImageType = &Exception{
	Message:    "only jpeg and png images are allowed",
	StatusCode: http.StatusBadRequest,
}
