package appcore

import (
	"errors"

	"sections/internal/sections"
)

var errSectionsServiceUnavailable = errors.New("sections service unavailable")

type Context struct {
	service *sections.Service
}

func NewContext(service *sections.Service) *Context {
	return &Context{service: service}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, sections.ErrNotFound)
}
