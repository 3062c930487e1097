package errors

import "net/http"

var ErrInvalidDueDate = &Exception{
	Message:    "dueDate must be an RFC 3339 timestamp or YYYY-MM-DD date",
	StatusCode: http.StatusBadRequest,
}
