package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/orgmaker/internal/service"
	"github.com/locvowork/orgmaker/internal/service/serviceutils"
)

type PoolHandler struct {
	svc service.PoolService
}

func NewPoolHandler(svc service.PoolService) *PoolHandler {
	return &PoolHandler{svc: svc}
}

func (h *PoolHandler) ListHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Pool retrieved successfully", h.svc.Pool(c.QueryParam("q")))
}

// RefreshHandler starts a background refresh; the pool view shows loading
// until it lands.
func (h *PoolHandler) RefreshHandler(c echo.Context) error {
	if err := h.svc.RefreshPoolAsync(); err != nil {
		if errors.Is(err, service.ErrNoFeed) {
			return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Employee feed is not configured", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to start pool refresh", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusAccepted, "Pool refresh started", nil)
}

func (h *PoolHandler) SelectHandler(c echo.Context) error {
	id := c.Param("id")
	changed := h.svc.SelectEmployee(id)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Selection updated", SelectionResponse{ID: id, Selected: changed, Changed: changed})
}

func (h *PoolHandler) DeselectHandler(c echo.Context) error {
	id := c.Param("id")
	changed := h.svc.DeselectEmployee(id)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Selection updated", SelectionResponse{ID: id, Changed: changed})
}

func (h *PoolHandler) ToggleHandler(c echo.Context) error {
	id := c.Param("id")
	selected := h.svc.ToggleEmployee(id)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Selection updated", SelectionResponse{ID: id, Selected: selected, Changed: true})
}

// SelectAllHandler selects every employee the q filter shows.
func (h *PoolHandler) SelectAllHandler(c echo.Context) error {
	n := h.svc.SelectVisible(c.QueryParam("q"))
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Visible employees selected", SelectionResponse{Selected: n > 0, Changed: true, Count: n})
}

func (h *PoolHandler) ClearSelectionHandler(c echo.Context) error {
	h.svc.ClearSelection()
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Selection cleared", SelectionResponse{Changed: true})
}
