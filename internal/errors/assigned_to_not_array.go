package errors

import "net/http"

var ErrAssignedToNotArray = &Exception{
	Message:    "assignedTo must be an array of user IDs",
	StatusCode: http.StatusBadRequest,
}
