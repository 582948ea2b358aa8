package http

import (
	"errors"

	"github.com/google/uuid"
)

var ErrEmptyID = errors.New("id cannot be empty")

func ValidateUUID(s string) error {
	if s == "" {
		return ErrEmptyID
	}
	_, err := uuid.Parse(s)
	return err
}
