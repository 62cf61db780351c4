package types

import "fmt"

// CustomError is the typed failure the services raise and the HTTP boundary
// translates. Code is the HTTP status (403 Forbidden, 404 NotFound, 400
// validation); Type is a dotted category for the response envelope, such as
// "projects.get" or "permissions.update.self".
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%d, %s)", e.Message, e.Code, e.Type)
}
