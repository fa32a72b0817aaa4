package service

import (
	_ "embed"
	"fmt"

	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/pkg/simpleexcel"
)

//go:embed chart_export.yaml
var chartExportTemplate []byte

type unitRow struct {
	ID        string
	Parent    string
	Level     string
	Label     string
	Layout    string
	Headcount int

	color string
}

type personRow struct {
	Name     string
	Position string
	Role     string
	Unit     string
}

type summaryRow struct {
	Metric string
	Count  int
}

// ExportChart renders the current chart as an xlsx workbook. Org rows are
// filled with their level colour.
func (s *OrgChartService) ExportChart() ([]byte, error) {
	tree := s.chart.Snapshot()
	root := tree.Hierarchy(s.Levels())

	var units []unitRow
	var people []personRow
	var walk func(h *chart.HierarchyNode)
	walk = func(h *chart.HierarchyNode) {
		units = append(units, unitRow{
			ID:        h.ID,
			Parent:    h.ParentID,
			Level:     h.Display.Name,
			Label:     h.Label,
			Layout:    string(h.Layout),
			Headcount: h.Headcount,
			color:     h.Display.Color,
		})
		for _, p := range h.Persons {
			row := personRow{Name: p.Label, Position: p.OriginalPosition, Unit: h.Label}
			if p.Role != nil {
				row.Role = string(*p.Role)
			}
			people = append(people, row)
		}
		for _, c := range h.Side {
			walk(c)
		}
		for _, c := range h.Standard {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}

	stats := tree.Stats()
	summary := []summaryRow{
		{Metric: "Division", Count: stats.Division},
		{Metric: "Group", Count: stats.Group},
		{Metric: "Team", Count: stats.Team},
		{Metric: "Person", Count: stats.Person},
	}

	exporter, err := simpleexcel.NewDataExporterFromYAML(chartExportTemplate)
	if err != nil {
		return nil, fmt.Errorf("load export template: %w", err)
	}
	exporter.
		BindSectionData("units", units).
		BindSectionData("summary", summary).
		BindSectionData("people", people).
		BindRowStyle("units", levelFill)

	data, err := exporter.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("export chart: %w", err)
	}
	return data, nil
}

func levelFill(item interface{}) *simpleexcel.StyleTemplate {
	row, ok := item.(unitRow)
	if !ok || row.color == "" {
		return nil
	}
	return &simpleexcel.StyleTemplate{
		Font: &simpleexcel.FontTemplate{Color: "#ffffff"},
		Fill: &simpleexcel.FillTemplate{Color: row.color},
	}
}
