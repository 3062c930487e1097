package errors

import "net/http"

var ErrChecklistRequired = &Exception{
	Message:    "todoChecklist must be an array",
	StatusCode: http.StatusBadRequest,
}
