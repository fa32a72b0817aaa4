package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/orgmaker/internal/classifier"
	"github.com/locvowork/orgmaker/internal/service"
	"github.com/locvowork/orgmaker/internal/service/serviceutils"
)

// RuleLister reports the leader role rules in match order.
type RuleLister interface {
	Rules() []classifier.Rule
}

type LevelHandler struct {
	svc   service.LevelService
	roles RuleLister
}

func NewLevelHandler(svc service.LevelService, roles RuleLister) *LevelHandler {
	return &LevelHandler{svc: svc, roles: roles}
}

func (h *LevelHandler) ListHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Levels retrieved successfully", h.svc.Levels())
}

func (h *LevelHandler) UpdateHandler(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid level index", err)
	}

	var req UpdateLevelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	level, err := h.svc.UpdateLevel(index, req.Name, req.Color)
	switch {
	case errors.Is(err, service.ErrLevelNotFound):
		return serviceutils.ResponseError(c, http.StatusNotFound, "Level not found", err)
	case errors.Is(err, service.ErrInvalidLevel):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid level", err)
	case err != nil:
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to update level", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Level updated successfully", level)
}

// RolesHandler lists the position keywords that mark leaders.
func (h *LevelHandler) RolesHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Leader roles retrieved successfully", h.roles.Rules())
}
