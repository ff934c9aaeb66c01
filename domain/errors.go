package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden will throw if the user does not own the resource
	ErrForbidden = errors.New("you do not have permission to access this resource")
	// ErrUnauthorized will throw if the request carries no valid identity
	ErrUnauthorized = errors.New("user not authenticated")
)
