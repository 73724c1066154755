package service

import (
	"errors"

	"github.com/nikolayk812/lunchorder/internal/repository"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidIdentifier   = errors.New("invalid identifier supplied")
	ErrForbidden           = errors.New("you can only modify your own orders")
	ErrUnauthorized        = errors.New("admin authorization required")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound and ErrConflict are returned by both store implementations.
	ErrNotFound        = repository.ErrNotFound
	ErrProductNotFound = repository.ErrProductNotFound
	ErrConflict        = repository.ErrVersionConflict
)
