package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"snowpro_quiz_backend/docs"
	"snowpro_quiz_backend/internal/config"
	"snowpro_quiz_backend/internal/middleware"
	"snowpro_quiz_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	identity := middleware.IdentityMiddleware(cfg)
	session := middleware.SessionMiddleware(a.services.sessions)

	// 服务端渲染的测验页
	router.GET("/", identity, session, c.quizPage.Show)
	router.POST("/", identity, session, c.quizPage.Submit)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		quiz := api.Group("/quiz")
		quiz.Use(identity, session)
		{
			quiz.GET("/page", c.quizAPI.GetPage)
			quiz.POST("/page/next", c.quizAPI.NextPage)
			quiz.POST("/page/previous", c.quizAPI.PreviousPage)
			quiz.PUT("/questions/:id/answer", c.quizAPI.PutAnswer)
			quiz.POST("/questions/:id/grade", c.quizAPI.Grade)
			quiz.POST("/questions/:id/flag", c.quizAPI.Flag)
			quiz.POST("/reset", c.quizAPI.Reset)
			quiz.GET("/progress", c.quizAPI.Progress)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/questions/reload", c.quizAPI.ReloadQuestions)
		}
	}
}
