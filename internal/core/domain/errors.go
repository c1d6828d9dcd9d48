package domain

import "errors"

// Every failure a handler can see maps to one of these sentinels so the
// HTTP layer renders a stable code without inspecting storage internals.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidUnits       = errors.New("invalid units")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrConflict           = errors.New("concurrent update conflict, retry the operation")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
