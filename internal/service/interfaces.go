package service

import (
	"context"

	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/locvowork/orgmaker/internal/dragdrop"
)

// PoolService is the employee pool side of the application state.
type PoolService interface {
	RefreshPool(ctx context.Context) error
	RefreshPoolAsync() error
	Pool(term string) PoolView
	SelectEmployee(id string) bool
	DeselectEmployee(id string) bool
	ToggleEmployee(id string) bool
	SelectVisible(term string) int
	ClearSelection()
}

// ChartService is the chart side of the application state.
type ChartService interface {
	Chart() *chart.Tree
	Hierarchy() *chart.HierarchyNode
	Node(id string) (NodeDetail, error)
	Stats() domain.Stats
	AddOrgNode(spec chart.OrgSpec) chart.Result
	AddPersonNode(parentID, employeeID string) (chart.Result, error)
	AddSelectedAsPersons(parentID string) chart.Result
	UpdateLabel(id, label string) chart.Result
	Reparent(nodeID, newParentID string) chart.Result
	DeleteNode(id string) chart.Result
	Drop(p dragdrop.Payload, targetID string) (chart.Result, error)
	ResetChart() chart.Result
	ExportChart() ([]byte, error)
}

// LevelService edits the level table.
type LevelService interface {
	Levels() domain.LevelConfig
	UpdateLevel(index int, name, color *string) (domain.Level, error)
}

var (
	_ PoolService  = (*OrgChartService)(nil)
	_ ChartService = (*OrgChartService)(nil)
	_ LevelService = (*OrgChartService)(nil)
)
