package domain

import "errors"

// Errors for the order and material aggregates
var (
	ErrInvalidStage         = errors.New("invalid production stage")
	ErrInvalidStatus        = errors.New("invalid stage status")
	ErrTransitionNotAllowed = errors.New("stage transition not allowed")
	ErrInsufficientStock    = errors.New("insufficient stock for adjustment")
	ErrClientNameRequired   = errors.New("order must have a client name")
	ErrMaterialNameRequired = errors.New("material must have a name")
	ErrNegativeQuantity     = errors.New("material quantity cannot be negative")
)
