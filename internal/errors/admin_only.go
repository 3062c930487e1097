package errors

import "net/http"

var ErrAdminOnly = &Exception{
	Message:    "access denied, admin only",
	StatusCode: http.StatusForbidden,
}
