package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("validation error")
	ErrInvalidOrder  = errors.New("invalid slide order")
	ErrInvalidLayout = errors.New("invalid layout")
	ErrGeneration    = errors.New("generation failed")
	ErrRenderFailure = errors.New("render failure")
)
