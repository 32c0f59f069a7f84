package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

// listInput parses the shared pagination/search query parameters. Out-of-range
// values are clamped by ports.ListInput.Normalize at the service layer.
func listInput(c echo.Context) ports.ListInput {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.ListInput{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	}
}
