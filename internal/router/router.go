// Package router binds the HTTP API onto echo, one router per resource.
package router

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.NewValidation("Invalid " + name + " parameter")
	}
	return id, nil
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.NewValidation("Invalid id")
	}
	return &id, nil
}
