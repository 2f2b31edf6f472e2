package service

import "errors"

var (
	ErrEmptyReason  = errors.New("reason must not be empty")
	ErrValidation   = errors.New("invalid order payload")
	ErrNoAdminFound = errors.New("no admin user found")
)
