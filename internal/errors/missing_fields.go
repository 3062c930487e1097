package errors

import "net/http"

var ErrMissingUserFields = &Exception{
	Message:    "name, email and password are required",
	StatusCode: http.StatusBadRequest,
}
