package errors

import "net/http"

var ErrImageTooLarge = &Exception{
	Message:    "image is too large",
	StatusCode: http.StatusRequestEntityTooLarge,
}
