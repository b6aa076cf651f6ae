package service

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized")

// NotFoundError reports that a referenced entity does not exist. The boundary
// layer maps it to a 404.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %v was not found", e.Entity, e.Key)
}

// BadRequestError is the generic processing failure: commit reported nothing
// persisted, or a backend invariant was violated.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
