package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/locvowork/orgmaker/internal/dragdrop"
	"github.com/locvowork/orgmaker/internal/service"
	"github.com/locvowork/orgmaker/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ChartHandler struct {
	svc service.ChartService
}

func NewChartHandler(svc service.ChartService) *ChartHandler {
	return &ChartHandler{svc: svc}
}

func (h *ChartHandler) GetHandler(c echo.Context) error {
	tree := h.svc.Chart()
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Chart retrieved successfully", ChartResponse{
		Nodes:     tree.Nodes(),
		Hierarchy: h.svc.Hierarchy(),
		Stats:     tree.Stats(),
	})
}

// NodeHandler returns one node with its path to the root.
func (h *ChartHandler) NodeHandler(c echo.Context) error {
	detail, err := h.svc.Node(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNodeNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Node not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to get node", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Node retrieved successfully", detail)
}

func (h *ChartHandler) StatsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Stats retrieved successfully", h.svc.Stats())
}

func (h *ChartHandler) AddOrgHandler(c echo.Context) error {
	var req AddOrgNodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	res := h.svc.AddOrgNode(chart.OrgSpec{
		ParentID:    req.ParentID,
		IsException: req.IsException,
		Layout:      domain.Layout(req.Layout),
		LevelIndex:  req.LevelIndex,
	})
	return mutationResponse(c, res, "Org node created")
}

func (h *ChartHandler) AddPersonHandler(c echo.Context) error {
	var req AddPersonNodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	res, err := h.svc.AddPersonNode(req.ParentID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownEmployee) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to add person", err)
	}
	return mutationResponse(c, res, "Person node created")
}

// AddSelectedHandler inserts the whole pool selection under :id.
func (h *ChartHandler) AddSelectedHandler(c echo.Context) error {
	res := h.svc.AddSelectedAsPersons(c.Param("id"))
	return mutationResponse(c, res, "Selected employees added")
}

func (h *ChartHandler) UpdateLabelHandler(c echo.Context) error {
	var req UpdateLabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	return mutationResponse(c, h.svc.UpdateLabel(c.Param("id"), *req.Label), "Label updated")
}

func (h *ChartHandler) ReparentHandler(c echo.Context) error {
	var req ReparentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	return mutationResponse(c, h.svc.Reparent(c.Param("id"), req.ParentID), "Node moved")
}

func (h *ChartHandler) DeleteHandler(c echo.Context) error {
	return mutationResponse(c, h.svc.DeleteNode(c.Param("id")), "Node deleted")
}

func (h *ChartHandler) DropHandler(c echo.Context) error {
	var req DropRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	payload, err := dragdrop.Decode(req.Payload)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid drag payload", err)
	}

	res, err := h.svc.Drop(payload, req.TargetID)
	if err != nil {
		if errors.Is(err, dragdrop.ErrInvalidPayload) {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid drag payload", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to apply drop", err)
	}
	return mutationResponse(c, res, "Drop applied")
}

func (h *ChartHandler) ResetHandler(c echo.Context) error {
	return mutationResponse(c, h.svc.ResetChart(), "Chart reset")
}

func (h *ChartHandler) ExportHandler(c echo.Context) error {
	data, err := h.svc.ExportChart()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export chart", err)
	}

	filename := fmt.Sprintf("orgchart_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// mutationResponse answers 200 for refused mutations too; the client reads
// changed=false.
func mutationResponse(c echo.Context, res chart.Result, message string) error {
	if !res.Changed {
		message = "No change"
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, message, res)
}
