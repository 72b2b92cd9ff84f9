package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhub/internal/apperr"
	"taskhub/internal/pagination"
)

// ListResponse is the envelope for every paginated list endpoint.
type ListResponse struct {
	Data interface{}     `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// MessageResponse is a simple acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid id %q", c.Param("id"))
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperr.BadRequest("%s", err.Error())
	}
	return nil
}
