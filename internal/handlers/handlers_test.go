package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuizService struct {
	mock.Mock
}

func (m *mockQuizService) view(args mock.Arguments) (*services.SessionView, error) {
	v, _ := args.Get(0).(*services.SessionView)
	return v, args.Error(1)
}

func (m *mockQuizService) report(args mock.Arguments) (*models.ScoreReport, error) {
	r, _ := args.Get(0).(*models.ScoreReport)
	return r, args.Error(1)
}

func (m *mockQuizService) Start(ctx context.Context, req *models.QuizConfig) (*services.SessionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *mockQuizService) Get(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) SelectOption(ctx context.Context, id string, optionID int) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id, optionID))
}

func (m *mockQuizService) Confirm(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) ToggleFlag(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) Next(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) Previous(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) GoTo(ctx context.Context, id string, index int) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id, index))
}

func (m *mockQuizService) Submit(ctx context.Context, id string) (*models.ScoreReport, error) {
	return m.report(m.Called(ctx, id))
}

func (m *mockQuizService) Retry(ctx context.Context, id string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockQuizService) Abandon(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuizService) Report(ctx context.Context, id string) (*models.ScoreReport, error) {
	return m.report(m.Called(ctx, id))
}

func (m *mockQuizService) ExportReport(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockQuizService) Close() {}

type stubCatalog struct{}

func (stubCatalog) ListUnits() []string { return []string{"Medicine"} }

func (stubCatalog) ListModules(unit string) ([]string, error) {
	if unit != "Medicine" {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnitNotFound, unit)
	}
	return []string{"Cardiology"}, nil
}

func (stubCatalog) ListCourses(unit, module string) ([]string, error) {
	if module != "Cardiology" {
		return nil, fmt.Errorf("%w: %s", catalog.ErrModuleNotFound, module)
	}
	return []string{"Year 1"}, nil
}

func (stubCatalog) GetQuestions(unit, module, course string) ([]models.Question, error) {
	q := models.Question{ID: 1, Text: "Q", Module: "Cardiology", Courses: []string{"Year 1"},
		Options: []models.Option{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}, CorrectOptionIDs: []int{1}}
	if course != "" && !q.HasCourse(course) {
		return []models.Question{}, nil
	}
	return []models.Question{q}, nil
}

func setupRouter(svc services.QuizService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewLogger("test", io.Discard)
	router := gin.New()
	router.Use(utils.RequestID(), utils.ContextLogger(logger))
	NewHandlerManager(stubCatalog{}, svc, logger).SetupRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	w := doRequest(setupRouter(new(mockQuizService)), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quiz-service")
}

func TestCatalogRoutes(t *testing.T) {
	router := setupRouter(new(mockQuizService))

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"units", "/api/v1/catalog/units", http.StatusOK, `"Medicine"`},
		{"modules", "/api/v1/catalog/units/Medicine/modules", http.StatusOK, `"Cardiology"`},
		{"unknown unit", "/api/v1/catalog/units/Physics/modules", http.StatusNotFound, `"not_found"`},
		{"courses", "/api/v1/catalog/units/Medicine/modules/Cardiology/courses", http.StatusOK, `"Year 1"`},
		{"unknown module", "/api/v1/catalog/units/Medicine/modules/Renal/courses", http.StatusNotFound, `"not_found"`},
		{"questions", "/api/v1/catalog/units/Medicine/modules/Cardiology/questions", http.StatusOK, `"total":1`},
		{"questions by course", "/api/v1/catalog/units/Medicine/modules/Cardiology/questions?course=Year%202", http.StatusOK, `"total":0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestStartQuiz(t *testing.T) {
	svc := new(mockQuizService)
	router := setupRouter(svc)

	req := &models.QuizConfig{Unit: "Medicine", Module: "Cardiology", QuestionCount: 5}
	svc.On("Start", mock.Anything, req).Return(&services.SessionView{ID: "abc", Total: 1}, nil).Once()

	w := doRequest(router, http.MethodPost, "/api/v1/quiz/start", req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var view services.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "abc", view.ID)

	// Still active in memory: nothing was restored from the store, but nothing was created either.
	svc.On("Start", mock.Anything, req).Return(&services.SessionView{ID: "abc", Resumed: true}, nil).Once()
	w = doRequest(router, http.MethodPost, "/api/v1/quiz/start", req)
	assert.Equal(t, http.StatusOK, w.Code, "resumed sessions are not created")

	svc.On("Start", mock.Anything, req).Return(&services.SessionView{ID: "abc", Restored: true, Resumed: true}, nil).Once()
	w = doRequest(router, http.MethodPost, "/api/v1/quiz/start", req)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}

func TestStartQuiz_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		redirect string
	}{
		{"no questions", services.ErrInvalidSessionInput, http.StatusBadRequest, CodeInvalidSessionInput, "/"},
		{"validation", apperrors.ValidationErrors{{Field: "question_count", Message: "must be between 1 and 50"}}, http.StatusBadRequest, CodeValidationFailed, ""},
		{"unknown unit", fmt.Errorf("%w: Physics", catalog.ErrUnitNotFound), http.StatusNotFound, CodeNotFound, ""},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError, CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockQuizService)
			svc.On("Start", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/quiz/start",
				models.QuizConfig{Unit: "Medicine", Module: "Cardiology", QuestionCount: 5})
			assert.Equal(t, tt.status, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.redirect, resp.Redirect)
		})
	}
}

func TestStartQuiz_MalformedBody(t *testing.T) {
	router := setupRouter(new(mockQuizService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quiz/start", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decodeError(t, w).Message)
}

func TestSessionActions(t *testing.T) {
	svc := new(mockQuizService)
	router := setupRouter(svc)
	view := &services.SessionView{ID: "abc", Index: 1}

	svc.On("Get", mock.Anything, "abc").Return(view, nil)
	svc.On("Confirm", mock.Anything, "abc").Return(view, nil)
	svc.On("ToggleFlag", mock.Anything, "abc").Return(view, nil)
	svc.On("Next", mock.Anything, "abc").Return(view, nil)
	svc.On("Previous", mock.Anything, "abc").Return(view, nil)
	svc.On("Retry", mock.Anything, "abc").Return(view, nil)
	svc.On("SelectOption", mock.Anything, "abc", 2).Return(view, nil)
	svc.On("GoTo", mock.Anything, "abc", 0).Return(view, nil)

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/v1/quiz/abc", nil},
		{http.MethodPost, "/api/v1/quiz/abc/confirm", nil},
		{http.MethodPost, "/api/v1/quiz/abc/flag", nil},
		{http.MethodPost, "/api/v1/quiz/abc/next", nil},
		{http.MethodPost, "/api/v1/quiz/abc/previous", nil},
		{http.MethodPost, "/api/v1/quiz/abc/retry", nil},
		{http.MethodPost, "/api/v1/quiz/abc/select", gin.H{"option_id": 2}},
		{http.MethodPost, "/api/v1/quiz/abc/goto", gin.H{"index": 0}},
	}

	for _, r := range requests {
		w := doRequest(router, r.method, r.path, r.body)
		assert.Equal(t, http.StatusOK, w.Code, r.path)
		assert.Contains(t, w.Body.String(), `"index":1`, r.path)
	}
	svc.AssertExpectations(t)
}

func TestSelectOption_Errors(t *testing.T) {
	svc := new(mockQuizService)
	router := setupRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/v1/quiz/abc/select", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "option_id is required")

	svc.On("SelectOption", mock.Anything, "abc", 9).Return(nil, fmt.Errorf("%w: option 9", services.ErrOptionNotFound))
	w = doRequest(router, http.MethodPost, "/api/v1/quiz/abc/select", gin.H{"option_id": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidationFailed, decodeError(t, w).Code)

	svc.On("SelectOption", mock.Anything, "gone", 1).Return(nil, services.ErrSessionNotFound)
	w = doRequest(router, http.MethodPost, "/api/v1/quiz/gone/select", gin.H{"option_id": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/", decodeError(t, w).Redirect)
}

func TestGoTo_OutOfRange(t *testing.T) {
	svc := new(mockQuizService)
	svc.On("GoTo", mock.Anything, "abc", 7).Return(nil, services.NewValidationError("index", "must be between 0 and 4", 7))

	w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/quiz/abc/goto", gin.H{"index": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"index"`)
}

func TestSubmitAndReport(t *testing.T) {
	svc := new(mockQuizService)
	router := setupRouter(svc)
	report := &models.ScoreReport{Score: models.Score{Correct: 1, Total: 2, Percentage: 50}, Completed: true}

	svc.On("Submit", mock.Anything, "abc").Return(report, nil)
	svc.On("Report", mock.Anything, "abc").Return(report, nil)

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/quiz/abc/submit"},
		{http.MethodGet, "/api/v1/quiz/abc/report"},
	} {
		w := doRequest(router, r.method, r.path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got models.ScoreReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 50.0, got.Score.Percentage)
	}
}

func TestExportReport(t *testing.T) {
	svc := new(mockQuizService)
	svc.On("ExportReport", mock.Anything, "abc").Return([]byte("xlsx-bytes"), nil)

	w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/quiz/abc/report/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quiz-report-abc.xlsx")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestAbandonQuiz(t *testing.T) {
	svc := new(mockQuizService)
	router := setupRouter(svc)
	svc.On("Abandon", mock.Anything, "abc").Return(nil)
	svc.On("Abandon", mock.Anything, "gone").Return(services.ErrSessionNotFound)

	w := doRequest(router, http.MethodDelete, "/api/v1/quiz/abc", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/quiz/gone", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
