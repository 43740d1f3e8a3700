package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuizHandler exposes quiz sessions
type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// SelectOptionRequest selects or toggles one option of the current question
type SelectOptionRequest struct {
	OptionID *int `json:"option_id" binding:"required"`
}

// GoToRequest jumps to a question by 0-based index
type GoToRequest struct {
	Index *int `json:"index" binding:"required"`
}

// StartQuiz starts or resumes a quiz
// @Summary Start quiz
// @Description Starts a quiz for a unit, module, optional course and question count. Starting
// @Description with the same parameters resumes the in-progress session.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body models.QuizConfig true "Quiz configuration"
// @Success 201 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/start [post]
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	var req models.QuizConfig
	if !bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting quiz", "unit", req.Unit, "module", req.Module, "question_count", req.QuestionCount)

	view, err := h.quizService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if view.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, view)
}

// GetQuiz returns the current state of a session
// @Summary Get quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.quizService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AbandonQuiz discards a session and its persisted state
// @Summary Abandon quiz
// @Tags quiz
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id} [delete]
func (h *QuizHandler) AbandonQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.quizService.Abandon(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectOption selects an option of the current question
// @Summary Select option
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectOptionRequest true "Option"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/select [post]
func (h *QuizHandler) SelectOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectOptionRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.quizService.SelectOption(c.Request.Context(), id, *req.OptionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GoTo jumps to a question
// @Summary Jump to question
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body GoToRequest true "Question index"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/goto [post]
func (h *QuizHandler) GoTo(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req GoToRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.quizService.GoTo(c.Request.Context(), id, *req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// runAction runs a body-less session operation and renders the resulting view
func (h *QuizHandler) runAction(c *gin.Context, action func(context.Context, string) (*services.SessionView, error)) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := action(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Confirm locks the answer of the current question
// @Router /quiz/{id}/confirm [post]
func (h *QuizHandler) Confirm(c *gin.Context) {
	h.runAction(c, h.quizService.Confirm)
}

// ToggleFlag flags or unflags the current question for review
// @Router /quiz/{id}/flag [post]
func (h *QuizHandler) ToggleFlag(c *gin.Context) {
	h.runAction(c, h.quizService.ToggleFlag)
}

// @Router /quiz/{id}/next [post]
func (h *QuizHandler) Next(c *gin.Context) {
	h.runAction(c, h.quizService.Next)
}

// @Router /quiz/{id}/previous [post]
func (h *QuizHandler) Previous(c *gin.Context) {
	h.runAction(c, h.quizService.Previous)
}

// Retry wipes all answers and starts the same quiz over
// @Router /quiz/{id}/retry [post]
func (h *QuizHandler) Retry(c *gin.Context) {
	h.runAction(c, h.quizService.Retry)
}

// SubmitQuiz completes a session and returns its score report
// @Summary Submit quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ScoreReport
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting quiz", "session_id", id)

	report, err := h.quizService.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetReport returns the score report of a session
// @Summary Get score report
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ScoreReport
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/report [get]
func (h *QuizHandler) GetReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.quizService.Report(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReport downloads the score report as an Excel workbook
// @Summary Export score report
// @Tags quiz
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/report/export [get]
func (h *QuizHandler) ExportReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	data, err := h.quizService.ExportReport(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-report-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}
