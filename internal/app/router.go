package app

import (
	"fitquest_backend/docs"
	"fitquest_backend/internal/config"
	"fitquest_backend/internal/middleware"
	"fitquest_backend/internal/model"
	"fitquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户
		authGroup.GET("/users/me", c.user.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)
		authGroup.POST("/users/me/avatar", c.user.UploadAvatar)
		authGroup.PUT("/users/me/goals", c.user.UpdateGoals)

		// 训练
		authGroup.POST("/workouts", c.workout.Create)
		authGroup.GET("/workouts", c.workout.List)
		authGroup.GET("/workouts/:id", c.workout.Get)
		authGroup.PUT("/workouts/:id", c.workout.Update)
		authGroup.DELETE("/workouts/:id", c.workout.Delete)

		// 营养
		authGroup.POST("/meals", c.nutrition.LogMeal)
		authGroup.GET("/meals", c.nutrition.ListMeals)
		authGroup.DELETE("/meals/:id", c.nutrition.DeleteMeal)
		authGroup.POST("/water", c.nutrition.AddWater)
		authGroup.GET("/nutrition/summary", c.nutrition.DailySummary)

		// 体测
		authGroup.POST("/body-metrics", c.bodyMetric.Create)
		authGroup.GET("/body-metrics", c.bodyMetric.List)
		authGroup.DELETE("/body-metrics/:id", c.bodyMetric.Delete)

		// 进度
		authGroup.POST("/progression/toggle", c.progression.Toggle)
		authGroup.POST("/progression/calculate", c.progression.Calculate)
		authGroup.GET("/progression/stats", c.progression.Stats)
		authGroup.GET("/progression/history", c.progression.History)
		authGroup.POST("/progression/rest-day", c.progression.RestDay)
		authGroup.POST("/progression/reset", c.progression.Reset)
	}

	// 管理员接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/progression/award", c.progression.Award)
	}
}
