package orders

import "errors"

// Code classifies a failed operation.
type Code string

const (
	CodeRestaurantNotFound Code = "RestaurantNotFound"
	CodeDishNotFound       Code = "DishNotFound"
	CodeOrderNotFound      Code = "OrderNotFound"
	CodeForbidden          Code = "Forbidden"
	CodeAlreadyAssigned    Code = "AlreadyAssigned"
	CodeInvalidStatus      Code = "InvalidStatus"
	CodeInternal           Code = "Internal"
)

// ErrForbidden is returned when a user opens a subscription their role may
// not hold.
var ErrForbidden = errors.New("forbidden")

// Result is embedded in every operation output. Failures never cross the
// service boundary as Go errors.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  Code   `json:"code,omitempty"`
}

func ok() Result {
	return Result{OK: true}
}

func fail(code Code, msg string) Result {
	return Result{Code: code, Error: msg}
}
