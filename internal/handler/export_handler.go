package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/pkg/simpleexcel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultBoardLayout has one section per board column. Section ids are the status names.
const DefaultBoardLayout = `
sheets:
  - name: "Quadro"
    sections:
      - id: "TODO"
        title: "A fazer"
        show_header: true
        title_style:
          font: { bold: true, color: "#FFFFFF" }
          fill: { color: "#4472C4" }
        header_style:
          font: { bold: true }
          fill: { color: "#D9E1F2" }
        columns: &columns
          - { field_name: "ID", header: "ID", width: 38 }
          - { field_name: "Title", header: "Título", width: 30 }
          - { field_name: "Description", header: "Descrição", width: 40 }
          - { field_name: "Priority", header: "Prioridade", width: 12 }
          - { field_name: "DueDate", header: "Data limite", width: 18 }
          - { field_name: "CreatedAt", header: "Criada em", width: 20 }
      - id: "DOING"
        title: "Em andamento"
        show_header: true
        title_style:
          font: { bold: true, color: "#FFFFFF" }
          fill: { color: "#ED7D31" }
        header_style:
          font: { bold: true }
          fill: { color: "#FBE5D6" }
        columns: *columns
      - id: "DONE"
        title: "Concluídas"
        show_header: true
        title_style:
          font: { bold: true, color: "#FFFFFF" }
          fill: { color: "#70AD47" }
        header_style:
          font: { bold: true }
          fill: { color: "#E2EFDA" }
        columns: *columns
`

// exportRow is the flat, already formatted shape written to the sheet.
type exportRow struct {
	ID          string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	CreatedAt   string
}

type ExportHandler struct {
	svc    service.TaskService
	loc    *time.Location
	layout string
}

// NewExportHandler checks the layout once so a broken file fails at startup.
func NewExportHandler(svc service.TaskService, loc *time.Location, layout string) (*ExportHandler, error) {
	if strings.TrimSpace(layout) == "" {
		layout = DefaultBoardLayout
	}
	if _, err := simpleexcel.NewDataExporterFromYamlConfig(layout); err != nil {
		return nil, fmt.Errorf("invalid export layout: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{svc: svc, loc: loc, layout: layout}, nil
}

// ExportBoardHandler writes every visible task into an xlsx workbook, grouped by status.
func (h *ExportHandler) ExportBoardHandler(c echo.Context) error {
	tasks, err := h.svc.List(c.Request().Context(), nil)
	if err != nil {
		return err
	}

	exporter, err := simpleexcel.NewDataExporterFromYamlConfig(h.layout)
	if err != nil {
		return err
	}

	byStatus := make(map[domain.TaskStatus][]exportRow, len(domain.TaskStatuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], exportRow{
			ID:          t.ID.String(),
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			DueDate:     t.DueDate.UTC().Format(DueDateLayout),
			CreatedAt:   t.CreatedAt.In(h.loc).Format(CreatedAtLayout),
		})
	}
	for _, st := range domain.TaskStatuses {
		rows := byStatus[st]
		if rows == nil {
			rows = []exportRow{}
		}
		exporter.BindSectionData(string(st), rows)
	}

	excelBytes, err := exporter.ToBytes()
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tarefas_%s.xlsx", time.Now().In(h.loc).Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(excelBytes)))
	c.Response().WriteHeader(http.StatusOK)

	_, err = c.Response().Write(excelBytes)
	return err
}
