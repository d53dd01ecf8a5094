package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status int
	Code   string
	Detail string
}

// ToHTTP maps any error to a status + code + detail triple. Unknown errors are
// never leaked to the client, they collapse into a generic 500.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status: appErr.HTTPStatus,
			Code:   appErr.Code,
			Detail: appErr.Message,
		}
	}

	return HTTPError{
		Status: http.StatusInternalServerError,
		Code:   CodeInternalError,
		Detail: "Internal server error",
	}
}
