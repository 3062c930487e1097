package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "status must be one of Pending, In Progress, Completed",
	StatusCode: http.StatusBadRequest,
}
