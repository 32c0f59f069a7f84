package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// timeLayout is the wire format for timestamps in response bodies.
const timeLayout = time.RFC3339

// envelope is the canonical success body: {code, message, data?, meta?}.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    *meta  `json:"meta,omitempty"`
}

// meta carries pagination details on list responses.
type meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Code: status, Message: message, Data: data})
}

func respondList(c echo.Context, status int, message string, data any, m meta) error {
	return c.JSON(status, envelope{Code: status, Message: message, Data: data, Meta: &m})
}
