package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig is a block of rows: an optional title, an optional header and one row per data item.
// Sections of a sheet are stacked vertically with one blank row between them.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	ShowHeader  bool           `yaml:"show_header"`
	Data        interface{}    `yaml:"-"` // slice of structs or of map[string]interface{}, bound at runtime
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig maps a struct field (or map key) to a column.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"`
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

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

// DataExporter renders sheets of sections into an xlsx workbook.
type DataExporter struct {
	sheets     []*SheetBuilder
	data       map[string]interface{}
	styleCache map[string]int
}

// SheetBuilder collects the sections of one sheet.
type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:       make(map[string]interface{}),
		styleCache: make(map[string]int),
	}
}

// NewDataExporterFromYamlConfig builds the sheets and sections described by yamlConfig.
// Section data is attached later with BindSectionData.
func NewDataExporterFromYamlConfig(yamlConfig string) (*DataExporter, error) {
	if strings.TrimSpace(yamlConfig) == "" {
		return nil, fmt.Errorf("yaml config is empty")
	}
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(yamlConfig), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("yaml config has no sheets")
	}

	e := NewDataExporter()
	for i := range tmpl.Sheets {
		sheetTmpl := &tmpl.Sheets[i]
		sb := e.AddSheet(sheetTmpl.Name)
		for j := range sheetTmpl.Sections {
			sb.AddSection(&sheetTmpl.Sections[j])
		}
	}
	return e, nil
}

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{exporter: e, name: name}
	e.sheets = append(e.sheets, sb)
	return sb
}

// BindSectionData binds data to a section ID.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// Sections returns the sections declared for the given sheet.
func (e *DataExporter) Sections(sheet string) []*SectionConfig {
	for _, sb := range e.sheets {
		if sb.name == sheet {
			return sb.sections
		}
	}
	return nil
}

func (sb *SheetBuilder) AddSection(sec *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, sec)
	return sb
}

// Build returns to the exporter so calls can be chained.
func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// BuildExcel renders every sheet into a new workbook.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	e.styleCache = make(map[string]int)

	f := excelize.NewFile()
	for i, sb := range e.sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sb.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet %s: %w", sb.name, err)
			}
		} else if _, err := f.NewSheet(sb.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sb.name, err)
		}
		if err := e.renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// ToBytes exports the workbook to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter exports the workbook directly to a writer.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1
	for _, sec := range sections {
		data := sec.Data
		if sec.ID != "" {
			if bound, ok := e.data[sec.ID]; ok {
				data = bound
			}
		}
		width := len(sec.Columns)
		if width == 0 {
			width = 1
		}

		if sec.Title != "" {
			start := cellName(1, row)
			if err := f.SetCellValue(sheet, start, sec.Title); err != nil {
				return err
			}
			styleID, err := e.createStyle(f, sec.TitleStyle, &StyleTemplate{Font: &FontTemplate{Bold: true}})
			if err != nil {
				return err
			}
			end := cellName(width, row)
			if width > 1 {
				if err := f.MergeCell(sheet, start, end); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, start, end, styleID); err != nil {
				return err
			}
			row++
		}

		if sec.ShowHeader {
			styleID, err := e.createStyle(f, sec.HeaderStyle, &StyleTemplate{Font: &FontTemplate{Bold: true}})
			if err != nil {
				return err
			}
			for i, col := range sec.Columns {
				cell := cellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
					return err
				}
				if col.Width > 0 {
					name, _ := excelize.ColumnNumberToName(i + 1)
					if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
						return err
					}
				}
			}
			row++
		}

		items := reflect.ValueOf(data)
		if data != nil && items.Kind() != reflect.Slice {
			return fmt.Errorf("section %q: data must be a slice, got %s", sec.ID, items.Kind())
		}
		if data != nil {
			for i := 0; i < items.Len(); i++ {
				item := items.Index(i)
				for j, col := range sec.Columns {
					if err := f.SetCellValue(sheet, cellName(j+1, row), extractValue(item, col.FieldName)); err != nil {
						return err
					}
				}
				row++
			}
		}
		row++
	}
	return nil
}

func (e *DataExporter) createStyle(f *excelize.File, tmpl, fallback *StyleTemplate) (int, error) {
	if tmpl == nil {
		tmpl = fallback
	}
	if tmpl == nil {
		return 0, nil
	}

	var sb strings.Builder
	if tmpl.Font != nil {
		fmt.Fprintf(&sb, "f:%v:%s|", tmpl.Font.Bold, tmpl.Font.Color)
	}
	if tmpl.Fill != nil {
		fmt.Fprintf(&sb, "i:%s|", tmpl.Fill.Color)
	}
	key := sb.String()
	if id, ok := e.styleCache[key]; ok {
		return id, nil
	}

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
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	e.styleCache[key] = id
	return id, nil
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return nil
		}
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Struct:
		field := item.FieldByName(fieldName)
		if field.IsValid() && field.CanInterface() {
			return field.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key()))
			if v.IsValid() {
				return v.Interface()
			}
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
