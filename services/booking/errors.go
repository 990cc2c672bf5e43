package booking

import "fmt"

type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}

// Error codes surfaced to the HTTP layer.
const (
	CodeNotFound     = "notFound"
	CodeNotPermitted = "notPermitted"
	CodeNotLicensed  = "notLicensed"
	CodeToolDown     = "toolDown"
	CodePastTime     = "pastTime"
	CodeInProgress   = "inProgress"
	CodeCollision    = "collision"
	CodeBadRequest   = "badRequest"
)
