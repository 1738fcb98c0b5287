package simpleexcel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type row struct {
	Title    string
	Priority string
}

const layout = `
sheets:
  - name: "Board"
    sections:
      - id: "todo"
        title: "TODO"
        show_header: true
        title_style:
          font: { bold: true, color: "#FFFFFF" }
          fill: { color: "#4472C4" }
        columns:
          - { field_name: "Title", header: "Título", width: 30 }
          - { field_name: "Priority", header: "Prioridade", width: 12 }
      - id: "done"
        title: "DONE"
        show_header: false
        columns:
          - { field_name: "Title", header: "Título" }
          - { field_name: "Priority", header: "Prioridade" }
`

func openWorkbook(t *testing.T, e *DataExporter) *excelize.File {
	t.Helper()
	data, err := e.ToBytes()
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func TestNewDataExporterFromYamlConfig(t *testing.T) {
	e, err := NewDataExporterFromYamlConfig(layout)
	require.NoError(t, err)

	sections := e.Sections("Board")
	require.Len(t, sections, 2)
	assert.Equal(t, "todo", sections[0].ID)
	assert.True(t, sections[0].ShowHeader)
	assert.Equal(t, 30.0, sections[0].Columns[0].Width)
	assert.Equal(t, "FFFFFF", trimHex(sections[0].TitleStyle.Font.Color))

	t.Run("Empty", func(t *testing.T) {
		_, err := NewDataExporterFromYamlConfig("  ")
		assert.Error(t, err)
	})

	t.Run("NoSheets", func(t *testing.T) {
		_, err := NewDataExporterFromYamlConfig("sheets: []")
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := NewDataExporterFromYamlConfig("sheets: [")
		assert.Error(t, err)
	})
}

func TestDataExporter_Render(t *testing.T) {
	e, err := NewDataExporterFromYamlConfig(layout)
	require.NoError(t, err)
	e.BindSectionData("todo", []row{{"Escrever", "HIGH"}, {"Revisar", "LOW"}}).
		BindSectionData("done", []*row{{"Publicar", "MEDIUM"}})

	f := openWorkbook(t, e)

	assert.Equal(t, []string{"Board"}, f.GetSheetList())
	assert.Equal(t, "TODO", cell(t, f, "Board", "A1"))
	assert.Equal(t, "Título", cell(t, f, "Board", "A2"))
	assert.Equal(t, "Prioridade", cell(t, f, "Board", "B2"))
	assert.Equal(t, "Escrever", cell(t, f, "Board", "A3"))
	assert.Equal(t, "HIGH", cell(t, f, "Board", "B3"))
	assert.Equal(t, "Revisar", cell(t, f, "Board", "A4"))
	// blank separator at row 5
	assert.Equal(t, "", cell(t, f, "Board", "A5"))
	assert.Equal(t, "DONE", cell(t, f, "Board", "A6"))
	assert.Equal(t, "Publicar", cell(t, f, "Board", "A7"))

	merged, err := f.GetMergeCells("Board")
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())

	width, err := f.GetColWidth("Board", "A")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestDataExporter_Builder(t *testing.T) {
	e := NewDataExporter()
	e.AddSheet("First").
		AddSection(&SectionConfig{
			Title:      "Maps",
			ShowHeader: true,
			Data:       []map[string]interface{}{{"name": "a"}, {"name": "b"}},
			Columns:    []ColumnConfig{{FieldName: "name", Header: "Nome"}},
		}).
		Build().
		AddSheet("Second").
		AddSection(&SectionConfig{ID: "empty", Title: "Nada"})

	f := openWorkbook(t, e)
	assert.Equal(t, []string{"First", "Second"}, f.GetSheetList())
	assert.Equal(t, "Nome", cell(t, f, "First", "A2"))
	assert.Equal(t, "a", cell(t, f, "First", "A3"))
	assert.Equal(t, "b", cell(t, f, "First", "A4"))
	assert.Equal(t, "Nada", cell(t, f, "Second", "A1"))

	t.Run("NoSheets", func(t *testing.T) {
		_, err := NewDataExporter().ToBytes()
		assert.Error(t, err)
	})

	t.Run("DataMustBeSlice", func(t *testing.T) {
		bad := NewDataExporter()
		bad.AddSheet("S").AddSection(&SectionConfig{ID: "x", Columns: []ColumnConfig{{FieldName: "Title"}}})
		bad.BindSectionData("x", row{Title: "not a slice"})
		var buf bytes.Buffer
		assert.Error(t, bad.ToWriter(&buf))
	})
}

func trimHex(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}
