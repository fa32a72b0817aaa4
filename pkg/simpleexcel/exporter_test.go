package simpleexcel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type unitRow struct {
	Name  string
	Count int
	Color string
}

const unitsTemplate = `
sheets:
  - name: "Units"
    sections:
      - id: "units"
        title: "Units"
        show_header: true
        title_style:
          font:
            bold: true
        columns:
          - field_name: "Name"
            header: "Name"
            width: 20
          - field_name: "Count"
            header: "Count"
      - id: "summary"
        show_header: true
        columns:
          - field_name: "metric"
            header: "Metric"
          - field_name: "value"
            header: "Value"
`

func TestDataExporter_BoundSections(t *testing.T) {
	rows := []unitRow{{"Sales", 3, "#1e40af"}, {"Ops", 1, ""}}

	exporter, err := NewDataExporterFromYAML([]byte(unitsTemplate))
	require.NoError(t, err)
	exporter.
		BindSectionData("units", rows).
		BindRowStyle("units", func(item interface{}) *StyleTemplate {
			if c := item.(unitRow).Color; c != "" {
				return &StyleTemplate{Fill: &FillTemplate{Color: c}}
			}
			return nil
		}).
		BindSectionData("summary", []map[string]interface{}{{"metric": "total", "value": 4}})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	testCases := map[string]struct {
		cell string
		want string
	}{
		"title":          {"A1", "Units"},
		"header":         {"B2", "Count"},
		"first row":      {"A3", "Sales"},
		"int value":      {"B3", "3"},
		"second row":     {"A4", "Ops"},
		"summary header": {"A6", "Metric"},
		"map value":      {"B7", "4"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := f.GetCellValue("Units", tc.cell)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	styled, err := f.GetCellStyle("Units", "B3")
	require.NoError(t, err)
	assert.NotZero(t, styled)
	plain, err := f.GetCellStyle("Units", "A4")
	require.NoError(t, err)
	assert.Zero(t, plain)

	merged, err := f.GetMergeCells("Units")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())
}

func TestDataExporter_FromYAML(t *testing.T) {
	yamlConfig := `
sheets:
  - name: "People"
    sections:
      - id: "people"
        show_header: true
        header_style:
          font:
            bold: true
            color: "#ffffff"
          fill:
            color: "#0f172a"
        columns:
          - field_name: "Name"
            header: "Name"
      - id: "side"
        direction: horizontal
        position: "D1"
        columns:
          - field_name: "Name"
            header: "Name"
`
	exporter, err := NewDataExporterFromYAML([]byte(yamlConfig))
	require.NoError(t, err)

	exporter.
		BindSectionData("people", []unitRow{{Name: "Kim"}, {Name: "Lee"}}).
		BindSectionData("side", []*unitRow{{Name: "Park"}, nil})

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"People"}, f.GetSheetList())

	rows, err := f.GetRows("People")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "", "", "Park"}, rows[0])
	assert.Equal(t, "Kim", rows[1][0])
	assert.Equal(t, "Lee", rows[2][0])

	header, err := f.GetCellStyle("People", "A1")
	require.NoError(t, err)
	assert.NotZero(t, header)
}

func TestNewDataExporterFromYAML_Invalid(t *testing.T) {
	testCases := map[string]string{
		"malformed": "sheets: [",
		"no sheets": "sheets: []",
	}
	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewDataExporterFromYAML([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestDataExporter_BadPosition(t *testing.T) {
	exporter, err := NewDataExporterFromYAML([]byte("sheets:\n  - name: S\n    sections:\n      - id: x\n        position: not-a-cell\n"))
	require.NoError(t, err)

	_, err = exporter.BuildExcel()
	assert.Error(t, err)
}
