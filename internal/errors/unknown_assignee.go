package errors

import "net/http"

var ErrUnknownAssignee = &Exception{
	Message:    "assignedTo contains an unknown user",
	StatusCode: http.StatusBadRequest,
}
