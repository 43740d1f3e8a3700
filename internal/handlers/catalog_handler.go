package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the configuration screen: units, modules, courses and questions
type CatalogHandler struct {
	BaseHandler
	catalog services.QuestionCatalog
}

func NewCatalogHandler(catalog services.QuestionCatalog, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// ListUnits lists all units
// @Summary List units
// @Tags catalog
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]string}
// @Router /catalog/units [get]
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	h.RespondWithSuccess(c, http.StatusOK, "Units retrieved", h.catalog.ListUnits())
}

// ListModules lists the modules of a unit
// @Summary List modules
// @Tags catalog
// @Produce json
// @Param unit path string true "Unit name"
// @Success 200 {object} SuccessResponse{data=[]string}
// @Failure 404 {object} ErrorResponse
// @Router /catalog/units/{unit}/modules [get]
func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.catalog.ListModules(c.Param("unit"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Modules retrieved", modules)
}

// ListCourses lists the course labels used in a module
// @Summary List courses
// @Tags catalog
// @Produce json
// @Param unit path string true "Unit name"
// @Param module path string true "Module name"
// @Success 200 {object} SuccessResponse{data=[]string}
// @Failure 404 {object} ErrorResponse
// @Router /catalog/units/{unit}/modules/{module}/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Param("unit"), c.Param("module"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Courses retrieved", courses)
}

// QuestionSummary is a question without its answers
type QuestionSummary struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Module  string   `json:"module"`
	Courses []string `json:"courses,omitempty"`
}

// CountQuestions returns the questions available for a unit, module and optional course, so
// the configuration screen can bound the question count
// @Summary List questions
// @Tags catalog
// @Produce json
// @Param unit path string true "Unit name"
// @Param module path string true "Module name"
// @Param course query string false "Course label"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /catalog/units/{unit}/modules/{module}/questions [get]
func (h *CatalogHandler) CountQuestions(c *gin.Context) {
	questions, err := h.catalog.GetQuestions(c.Param("unit"), c.Param("module"), c.Query("course"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	summaries := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summaries = append(summaries, QuestionSummary{ID: q.ID, Text: q.Text, Module: q.Module, Courses: q.Courses})
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions retrieved", gin.H{
		"total":     len(summaries),
		"questions": summaries,
	})
}
