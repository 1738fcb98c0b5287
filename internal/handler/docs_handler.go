package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v2"
)

type openAPIDoc struct {
	OpenAPI    string                         `yaml:"openapi"`
	Info       openAPIInfo                    `yaml:"info"`
	Servers    []openAPIServer                `yaml:"servers,omitempty"`
	Paths      map[string]map[string]apiOp    `yaml:"paths"`
	Components map[string]map[string]apiModel `yaml:"components"`
}

type openAPIInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

type openAPIServer struct {
	URL string `yaml:"url"`
}

type apiOp struct {
	Summary     string                 `yaml:"summary"`
	Description string                 `yaml:"description,omitempty"`
	Parameters  []apiParam             `yaml:"parameters,omitempty"`
	RequestBody *apiBody               `yaml:"requestBody,omitempty"`
	Responses   map[string]apiResponse `yaml:"responses"`
}

type apiParam struct {
	Name        string   `yaml:"name"`
	In          string   `yaml:"in"`
	Required    bool     `yaml:"required"`
	Description string   `yaml:"description,omitempty"`
	Schema      apiModel `yaml:"schema"`
}

type apiBody struct {
	Required bool                    `yaml:"required"`
	Content  map[string]apiMediaType `yaml:"content"`
}

type apiResponse struct {
	Description string                  `yaml:"description"`
	Content     map[string]apiMediaType `yaml:"content,omitempty"`
}

type apiMediaType struct {
	Schema apiModel `yaml:"schema"`
}

type apiModel struct {
	Ref        string              `yaml:"$ref,omitempty"`
	Type       string              `yaml:"type,omitempty"`
	Format     string              `yaml:"format,omitempty"`
	Example    string              `yaml:"example,omitempty"`
	Enum       []string            `yaml:"enum,omitempty"`
	Required   []string            `yaml:"required,omitempty"`
	Items      *apiModel           `yaml:"items,omitempty"`
	Properties map[string]apiModel `yaml:"properties,omitempty"`
	Additional *apiModel           `yaml:"additionalProperties,omitempty"`
}

func ref(name string) apiModel {
	return apiModel{Ref: "#/components/schemas/" + name}
}

func jsonOf(m apiModel) map[string]apiMediaType {
	return map[string]apiMediaType{echo.MIMEApplicationJSON: {Schema: m}}
}

func errorResponse(desc string) apiResponse {
	return apiResponse{Description: desc, Content: jsonOf(ref("ApiError"))}
}

// NewOpenAPIDocument describes the task routes mounted under basePath.
func NewOpenAPIDocument(basePath string) ([]byte, error) {
	idParam := apiParam{Name: "id", In: "path", Required: true, Schema: apiModel{Type: "string", Format: "uuid"}}
	dueDate := apiModel{Type: "string", Format: "dd/MM/yyyy HH:mm", Example: "05/02/2026 00:00"}
	status := apiModel{Type: "string", Enum: statusNames()}
	priority := apiModel{Type: "string", Enum: priorityNames()}

	doc := openAPIDoc{
		OpenAPI: "3.0.3",
		Info: openAPIInfo{
			Title:       "API de Tarefas (Kanban)",
			Version:     "v1",
			Description: "CRUD de tarefas com status TODO/DOING/DONE, exclusão lógica e física.",
		},
		Paths: map[string]map[string]apiOp{
			basePath: {
				"post": {
					Summary:     "Criar tarefa",
					Description: "Cria uma nova tarefa com título, descrição, data limite e prioridade.",
					RequestBody: &apiBody{Required: true, Content: jsonOf(ref("CreateTaskRequest"))},
					Responses: map[string]apiResponse{
						"200": {Description: "Tarefa criada com sucesso", Content: jsonOf(ref("TaskResponse"))},
						"400": errorResponse("Requisição inválida"),
					},
				},
				"get": {
					Summary:     "Listar tarefas",
					Description: "Lista todas as tarefas (ignorando deletadas). Permite filtrar por status.",
					Parameters: []apiParam{{
						Name: "status", In: "query", Description: "Filtro opcional por status: TODO, DOING, DONE", Schema: status,
					}},
					Responses: map[string]apiResponse{
						"200": {Description: "Lista retornada com sucesso", Content: jsonOf(apiModel{Type: "array", Items: &apiModel{Ref: "#/components/schemas/TaskResponse"}})},
						"400": errorResponse("Status inválido"),
					},
				},
			},
			basePath + "/{id}": {
				"get": {
					Summary:    "Buscar tarefa",
					Parameters: []apiParam{idParam},
					Responses: map[string]apiResponse{
						"200": {Description: "Tarefa encontrada", Content: jsonOf(ref("TaskResponse"))},
						"404": errorResponse("Tarefa não encontrada"),
					},
				},
				"put": {
					Summary:     "Atualizar tarefa",
					Description: "Edita título/descrição/prioridade/data ou move status.",
					Parameters:  []apiParam{idParam},
					RequestBody: &apiBody{Required: true, Content: jsonOf(ref("UpdateTaskRequest"))},
					Responses: map[string]apiResponse{
						"200": {Description: "Tarefa atualizada com sucesso", Content: jsonOf(ref("TaskResponse"))},
						"400": errorResponse("Requisição inválida"),
						"404": errorResponse("Tarefa não encontrada"),
					},
				},
				"delete": {
					Summary:     "Excluir tarefa (lógica)",
					Description: "Marca a tarefa como deletada (deleted=true).",
					Parameters:  []apiParam{idParam},
					Responses: map[string]apiResponse{
						"200": {Description: "Tarefa deletada logicamente com sucesso"},
						"404": errorResponse("Tarefa não encontrada"),
					},
				},
			},
			basePath + "/{id}/hard": {
				"delete": {
					Summary:     "Excluir tarefa (física)",
					Description: "Remove fisicamente o registro do banco.",
					Parameters:  []apiParam{idParam},
					Responses: map[string]apiResponse{
						"200": {Description: "Tarefa removida fisicamente com sucesso"},
					},
				},
			},
			basePath + "/export": {
				"get": {
					Summary: "Exportar quadro",
					Responses: map[string]apiResponse{
						"200": {Description: "Planilha xlsx com uma seção por status", Content: map[string]apiMediaType{
							xlsxContentType: {Schema: apiModel{Type: "string", Format: "binary"}},
						}},
					},
				},
			},
		},
		Components: map[string]map[string]apiModel{
			"schemas": {
				"CreateTaskRequest": {
					Type:     "object",
					Required: []string{"title", "dueDate"},
					Properties: map[string]apiModel{
						"title":       {Type: "string"},
						"description": {Type: "string"},
						"dueDate":     dueDate,
						"priority":    priority,
					},
				},
				"UpdateTaskRequest": {
					Type: "object",
					Properties: map[string]apiModel{
						"title":       {Type: "string"},
						"description": {Type: "string"},
						"status":      status,
						"priority":    priority,
						"dueDate":     dueDate,
					},
				},
				"TaskResponse": {
					Type: "object",
					Properties: map[string]apiModel{
						"id":          {Type: "string", Format: "uuid"},
						"title":       {Type: "string"},
						"description": {Type: "string"},
						"status":      status,
						"priority":    priority,
						"dueDate":     dueDate,
						"createdAt":   {Type: "string", Format: "dd/MM/yyyy HH:mm:ss"},
					},
				},
				"ApiError": {
					Type: "object",
					Properties: map[string]apiModel{
						"timestamp": {Type: "string", Format: "date-time"},
						"status":    {Type: "integer"},
						"error":     {Type: "string"},
						"message":   {Type: "string"},
						"path":      {Type: "string"},
						"fields":    {Type: "object", Additional: &apiModel{Type: "string"}},
					},
				},
			},
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi document: %w", err)
	}
	return out, nil
}

type DocsHandler struct {
	document []byte
}

func NewDocsHandler(basePath string) (*DocsHandler, error) {
	doc, err := NewOpenAPIDocument(basePath)
	if err != nil {
		return nil, err
	}
	return &DocsHandler{document: doc}, nil
}

func (h *DocsHandler) OpenAPIHandler(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", h.document)
}
