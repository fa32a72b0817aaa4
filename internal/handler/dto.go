package handler

import (
	"encoding/json"

	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/domain"
)

// AddOrgNodeRequest creates an org unit. A nil levelIndex derives the level
// from the parent.
type AddOrgNodeRequest struct {
	ParentID    string `json:"parentId" validate:"required"`
	IsException bool   `json:"isException"`
	Layout      string `json:"layout" validate:"omitempty,oneof=standard side"`
	LevelIndex  *int   `json:"levelIndex" validate:"omitempty,min=0"`
}

type AddPersonNodeRequest struct {
	ParentID   string `json:"parentId" validate:"required"`
	EmployeeID string `json:"employeeId" validate:"required"`
}

// UpdateLabelRequest accepts any label, the empty string included.
type UpdateLabelRequest struct {
	Label *string `json:"label" validate:"required"`
}

type ReparentRequest struct {
	ParentID string `json:"parentId" validate:"required"`
}

// DropRequest carries the drag payload exactly as the drag source encoded it.
type DropRequest struct {
	TargetID string          `json:"targetId" validate:"required"`
	Payload  json.RawMessage `json:"payload" validate:"required"`
}

type UpdateLevelRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// ChartResponse is the chart as flat nodes plus the nested view.
type ChartResponse struct {
	Nodes     []domain.ChartNode   `json:"nodes"`
	Hierarchy *chart.HierarchyNode `json:"hierarchy"`
	Stats     domain.Stats         `json:"stats"`
}

type SelectionResponse struct {
	ID       string `json:"id,omitempty"`
	Selected bool   `json:"selected"`
	Changed  bool   `json:"changed"`
	Count    int    `json:"count,omitempty"`
}
