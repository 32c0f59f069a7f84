package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

type StatsHandler struct {
	statsService ports.StatsService
}

func NewStatsHandler(statsService ports.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Collect returns the admin dashboard counters.
//
// @Summary      Platform statistics
// @Tags         stats
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  envelope{data=ports.Stats}
// @Router       /stats [get]
func (h *StatsHandler) Collect(c echo.Context) error {
	stats, err := h.statsService.Collect(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "stats", stats)
}
