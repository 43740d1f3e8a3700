package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	catalogHandler *CatalogHandler
	quizHandler    *QuizHandler
}

func NewHandlerManager(
	catalog services.QuestionCatalog,
	quizService services.QuizService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		catalogHandler: NewCatalogHandler(catalog, logger),
		quizHandler:    NewQuizHandler(quizService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/units", hm.catalogHandler.ListUnits)
			catalog.GET("/units/:unit/modules", hm.catalogHandler.ListModules)
			catalog.GET("/units/:unit/modules/:module/courses", hm.catalogHandler.ListCourses)
			catalog.GET("/units/:unit/modules/:module/questions", hm.catalogHandler.CountQuestions)
		}

		quiz := v1.Group("/quiz")
		{
			quiz.POST("/start", hm.quizHandler.StartQuiz)
			quiz.GET("/:id", hm.quizHandler.GetQuiz)
			quiz.DELETE("/:id", hm.quizHandler.AbandonQuiz)

			quiz.POST("/:id/select", hm.quizHandler.SelectOption)
			quiz.POST("/:id/confirm", hm.quizHandler.Confirm)
			quiz.POST("/:id/flag", hm.quizHandler.ToggleFlag)
			quiz.POST("/:id/next", hm.quizHandler.Next)
			quiz.POST("/:id/previous", hm.quizHandler.Previous)
			quiz.POST("/:id/goto", hm.quizHandler.GoTo)
			quiz.POST("/:id/submit", hm.quizHandler.SubmitQuiz)
			quiz.POST("/:id/retry", hm.quizHandler.Retry)

			quiz.GET("/:id/report", hm.quizHandler.GetReport)
			quiz.GET("/:id/report/export", hm.quizHandler.ExportReport)
		}
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-service",
	})
}
