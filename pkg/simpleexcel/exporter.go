package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
)

// DataExporter is the main entry point for exporting data.
type DataExporter struct {
	template *ReportTemplate
	// data holds data bound to specific section IDs
	data map[string]interface{}
	// styles binds row styling functions to section IDs
	styles map[string]RowStyleFunc
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// RowStyleFunc picks a style for one data row; nil means unstyled.
type RowStyleFunc func(item interface{}) *StyleTemplate

// SectionConfig defines a section of data in a sheet.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"` // Data is bound at runtime
	RowStyle    RowStyleFunc   `yaml:"-"`
	ShowHeader  bool           `yaml:"show_header"`
	Direction   string         `yaml:"direction"` // "horizontal" or "vertical"
	Position    string         `yaml:"position"`  // e.g., "A1"
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // Struct field name or map key
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}


// NewDataExporterFromYAML builds an exporter whose sheets come from a YAML
// report template.
func NewDataExporterFromYAML(data []byte) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("report template has no sheets")
	}

	return &DataExporter{
		template: &tmpl,
		data:     make(map[string]interface{}),
		styles:   make(map[string]RowStyleFunc),
	}, nil
}

// BindSectionData binds data to a section ID.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// BindRowStyle binds a row style function to a section ID.
func (e *DataExporter) BindRowStyle(id string, fn RowStyleFunc) *DataExporter {
	e.styles[id] = fn
	return e
}

// BuildExcel renders every sheet into a new workbook.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()
	r := &renderer{f: f, styles: make(map[string]int)}
	first := true

	useSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return err
		}
		if idx == -1 {
			_, err = f.NewSheet(name)
		}
		return err
	}

	for _, sheetTmpl := range e.template.Sheets {
		if err := useSheet(sheetTmpl.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheetTmpl.Name, err)
		}

		sections := make([]*SectionConfig, len(sheetTmpl.Sections))
		for j := range sheetTmpl.Sections {
			sec := sheetTmpl.Sections[j]
			if data, ok := e.data[sec.ID]; ok {
				sec.Data = data
			}
			if fn, ok := e.styles[sec.ID]; ok {
				sec.RowStyle = fn
			}
			sections[j] = &sec
		}

		if err := r.renderSections(sheetTmpl.Name, sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := e.ToWriter(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter writes the Excel file to w.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

type renderer struct {
	f *excelize.File
	// styles caches style ids by template key
	styles map[string]int
}

func (r *renderer) renderSections(sheet string, sections []*SectionConfig) error {
	maxRow := 1            // Next available row for Vertical sections (1-based)
	nextColHorizontal := 1 // Next available col for Horizontal sections (1-based)

	for _, sec := range sections {
		startCol, startRow := 1, maxRow
		if sec.Direction == SectionDirectionHorizontal {
			startCol, startRow = nextColHorizontal, 1
		}
		if sec.Position != "" {
			c, row, err := excelize.CellNameToCoordinates(sec.Position)
			if err != nil {
				return fmt.Errorf("section %q: %w", sec.ID, err)
			}
			startCol, startRow = c, row
		}

		currentRow := startRow

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(startCol, currentRow)
			if err := r.f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			endCell := cell
			if len(sec.Columns) > 1 {
				endCell, _ = excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, currentRow)
				if err := r.f.MergeCell(sheet, cell, endCell); err != nil {
					return err
				}
			}
			if err := r.applyStyle(sheet, cell, endCell, sec.TitleStyle); err != nil {
				return err
			}
			currentRow++
		}

		if sec.ShowHeader {
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(startCol+i, currentRow)
				if err := r.f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if err := r.applyStyle(sheet, cell, cell, sec.HeaderStyle); err != nil {
					return err
				}
				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(startCol + i)
					if err := r.f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
						return err
					}
				}
			}
			currentRow++
		}

		dataVal := reflect.ValueOf(sec.Data)
		if dataVal.Kind() == reflect.Slice {
			for i := 0; i < dataVal.Len(); i++ {
				item := dataVal.Index(i)
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(startCol+j, currentRow)
					if err := r.f.SetCellValue(sheet, cell, extractValue(item, col.FieldName)); err != nil {
						return err
					}
				}
				if sec.RowStyle != nil && len(sec.Columns) > 0 {
					first, _ := excelize.CoordinatesToCellName(startCol, currentRow)
					last, _ := excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, currentRow)
					if err := r.applyStyle(sheet, first, last, sec.RowStyle(item.Interface())); err != nil {
						return err
					}
				}
				currentRow++
			}
		}

		// one blank row between vertical sections
		if currentRow+1 > maxRow {
			maxRow = currentRow + 1
		}
		nextColHorizontal = startCol + len(sec.Columns) + 1
	}

	return nil
}

func (r *renderer) applyStyle(sheet, from, to string, tmpl *StyleTemplate) error {
	if tmpl == nil {
		return nil
	}
	id, err := r.styleID(tmpl)
	if err != nil {
		return err
	}
	return r.f.SetCellStyle(sheet, from, to, id)
}

func (r *renderer) styleID(tmpl *StyleTemplate) (int, error) {
	key := styleKey(tmpl)
	if id, ok := r.styles[key]; ok {
		return id, nil
	}
	id, err := r.f.NewStyle(toExcelStyle(tmpl))
	if err != nil {
		return 0, err
	}
	r.styles[key] = id
	return id, nil
}

func styleKey(tmpl *StyleTemplate) string {
	var b strings.Builder
	if tmpl.Font != nil {
		fmt.Fprintf(&b, "font:%t:%s;", tmpl.Font.Bold, tmpl.Font.Color)
	}
	if tmpl.Fill != nil {
		fmt.Fprintf(&b, "fill:%s;", tmpl.Fill.Color)
	}
	return b.String()
}

func toExcelStyle(tmpl *StyleTemplate) *excelize.Style {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return style
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	switch item.Kind() {
	case reflect.Struct:
		f := item.FieldByName(fieldName)
		if f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key()))
			if v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}
